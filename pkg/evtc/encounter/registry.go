package encounter

import "github.com/evtclog/evtclog-go/pkg/evtc/model"

// Buff and skill ids used by the built-in configurations.
const (
	buffEmboldened  int32 = 68087
	buffXeraPhasing int32 = 35000
	skillCairnCM    int32 = 38098
	skillDhuumCM    int32 = 48172
)

// The challenge variant of Soulless Horror announces itself only through
// the boss agent's inflated toughness rating.
const toughnessSoullessHorrorCM int16 = 1000

// Species ids of the built-in encounter configurations.
const (
	SpeciesValeGuardian   uint16 = 15438
	SpeciesGorseval       uint16 = 15429
	SpeciesXera           uint16 = 16246
	SpeciesCairn          uint16 = 17194
	SpeciesDeimos         uint16 = 17154
	SpeciesDhuum          uint16 = 19450
	SpeciesSoullessHorror uint16 = 19767
)

// Registry maps boss species ids to encounter configurations. Lookups for
// unregistered ids report the zero Config, which Classify completes with
// the default strategies.
//
// A Registry is safe for concurrent lookups once populated; Register is
// not safe to call concurrently with Classify.
type Registry struct {
	configs map[uint16]Config
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[uint16]Config)}
}

// Register adds or replaces the configuration for a boss id.
func (r *Registry) Register(bossID uint16, cfg Config) {
	r.configs[bossID] = cfg
}

// Lookup returns the configuration for a boss id and whether one is
// registered.
func (r *Registry) Lookup(bossID uint16) (Config, bool) {
	cfg, ok := r.configs[bossID]
	return cfg, ok
}

// DefaultRegistry returns a registry pre-populated with the built-in
// encounter configurations.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(SpeciesValeGuardian, Config{
		Name:   "Vale Guardian",
		Mode:   ModeFromBuff(buffEmboldened, model.ModeEmboldened),
		Result: ResultFromReward,
		Phases: PhasesFromHealth(SpeciesValeGuardian, 0.66, 0.33),
	})

	r.Register(SpeciesGorseval, Config{
		Name:   "Gorseval the Multifarious",
		Result: ResultFromReward,
		Phases: PhasesFromHealth(SpeciesGorseval, 0.66, 0.33),
	})

	r.Register(SpeciesXera, Config{
		Name:    "Xera",
		Phases:  PhasesFromBuff(SpeciesXera, buffXeraPhasing),
		Enemies: EnemiesBySpecies(SpeciesXera),
		// Xera is recorded as two agents across her split; merge the
		// second onto the first so attribution sees one boss.
		Steps: []StepFunc{MergeSplitBoss(SpeciesXera)},
	})

	r.Register(SpeciesCairn, Config{
		Name: "Cairn the Indomitable",
		Mode: ModeFromSkillCast(skillCairnCM, model.ModeChallenge),
	})

	r.Register(SpeciesDeimos, Config{
		Name:    "Deimos",
		Enemies: EnemiesBySpecies(SpeciesDeimos),
		// The attackable prime-light structure is tagged as a gadget.
		Steps: []StepFunc{RetagKind(SpeciesDeimos, model.AgentNPC)},
	})

	r.Register(SpeciesDhuum, Config{
		Name:   "Dhuum",
		Mode:   ModeFromSkillCast(skillDhuumCM, model.ModeChallenge),
		Result: ResultFromReward,
		Phases: PhasesFromHealth(SpeciesDhuum, 0.9, 0.1),
	})

	r.Register(SpeciesSoullessHorror, Config{
		Name:   "Soulless Horror",
		Mode:   ModeFromToughness(SpeciesSoullessHorror, toughnessSoullessHorrorCM),
		Result: ResultFromReward,
		Phases: PhasesFromHealth(SpeciesSoullessHorror, 0.9, 0.66, 0.33),
	})

	return r
}
