// Package decoder reads the raw EVTC binary layout: header, fixed-width
// agent and skill tables, then combat item records to end of stream.
//
// Decoding is forward-compatible by policy. Newer telemetry revisions add
// item kinds regularly, so unrecognized records are retained verbatim for
// the builder to surface as opaque events, and a truncated trailing record
// is dropped with a diagnostic count. Only a stream too short for its
// declared structure is fatal.
package decoder

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"unicode/utf8"
)

const magic = "EVTC"

// Decode parses an EVTC byte stream into its raw tables. A nil logger
// discards diagnostics.
func Decode(data []byte, logger *slog.Logger) (*RawLog, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	off := headerSize

	agents, off, err := decodeAgents(data, off)
	if err != nil {
		return nil, err
	}

	skills, off, err := decodeSkills(data, off)
	if err != nil {
		return nil, err
	}

	raw := &RawLog{Header: header, Agents: agents, Skills: skills}

	itemSize := combatItemSize
	for off+itemSize <= len(data) {
		item := decodeCombatItem(data[off:off+itemSize], header.Revision)
		raw.Items = append(raw.Items, item)
		off += itemSize
	}
	if rem := len(data) - off; rem > 0 {
		raw.Diagnostics.TruncatedBytes = rem
		logger.Warn("dropping truncated trailing combat item",
			"bytes", rem, "offset", off)
	}

	logger.Debug("decoded evtc stream",
		"revision", header.Revision,
		"boss_id", header.BossID,
		"agents", len(agents),
		"skills", len(skills),
		"items", len(raw.Items))
	return raw, nil
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, errAt(0, "stream too short for header: %d bytes", len(data))
	}
	if string(data[:4]) != magic {
		return Header{}, errAt(0, "bad magic %q", data[:4])
	}
	return Header{
		BuildDate: string(data[:12]),
		Revision:  data[12],
		BossID:    binary.LittleEndian.Uint16(data[13:15]),
	}, nil
}

func decodeAgents(data []byte, off int) ([]RawAgent, int, error) {
	if off+4 > len(data) {
		return nil, off, errAt(off, "stream too short for agent count")
	}
	count := int(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	if need := count * agentSize; off+need > len(data) {
		return nil, off, errAt(off, "stream too short for %d agent records", count)
	}

	agents := make([]RawAgent, 0, count)
	for i := 0; i < count; i++ {
		rec := data[off : off+agentSize]
		a := RawAgent{
			Address:       binary.LittleEndian.Uint64(rec[0:8]),
			Profession:    binary.LittleEndian.Uint32(rec[8:12]),
			IsElite:       binary.LittleEndian.Uint32(rec[12:16]),
			Toughness:     int16(binary.LittleEndian.Uint16(rec[16:18])),
			Concentration: int16(binary.LittleEndian.Uint16(rec[18:20])),
			Healing:       int16(binary.LittleEndian.Uint16(rec[20:22])),
			HitboxWidth:   int16(binary.LittleEndian.Uint16(rec[22:24])),
			Condition:     int16(binary.LittleEndian.Uint16(rec[24:26])),
			HitboxHeight:  int16(binary.LittleEndian.Uint16(rec[26:28])),
		}
		copy(a.Name[:], rec[28:92])
		agents = append(agents, a)
		off += agentSize
	}
	return agents, off, nil
}

func decodeSkills(data []byte, off int) ([]RawSkill, int, error) {
	if off+4 > len(data) {
		return nil, off, errAt(off, "stream too short for skill count")
	}
	count := int(binary.LittleEndian.Uint32(data[off : off+4]))
	off += 4
	if need := count * skillSize; off+need > len(data) {
		return nil, off, errAt(off, "stream too short for %d skill records", count)
	}

	skills := make([]RawSkill, 0, count)
	for i := 0; i < count; i++ {
		rec := data[off : off+skillSize]
		skills = append(skills, RawSkill{
			ID:   int32(binary.LittleEndian.Uint32(rec[0:4])),
			Name: decodeName(rec[4:68]),
		})
		off += skillSize
	}
	return skills, off, nil
}

// decodeCombatItem never fails: every 64-byte record decodes to something,
// and records whose discriminators the builder does not recognize keep
// their raw bytes for the opaque event path.
func decodeCombatItem(rec []byte, revision uint8) RawCombatItem {
	item := RawCombatItem{
		Time:     binary.LittleEndian.Uint64(rec[0:8]),
		SrcAgent: binary.LittleEndian.Uint64(rec[8:16]),
		DstAgent: binary.LittleEndian.Uint64(rec[16:24]),
		Value:    int32(binary.LittleEndian.Uint32(rec[24:28])),
		BuffDmg:  int32(binary.LittleEndian.Uint32(rec[28:32])),
		Raw:      bytes.Clone(rec),
	}

	if revision == 0 {
		// Legacy layout: 16-bit overstack and skill id, no destination
		// master, discriminators shifted by the skill-state block.
		item.OverstackValue = uint32(binary.LittleEndian.Uint16(rec[32:34]))
		item.SkillID = uint32(binary.LittleEndian.Uint16(rec[34:36]))
		item.SrcInstID = binary.LittleEndian.Uint16(rec[36:38])
		item.DstInstID = binary.LittleEndian.Uint16(rec[38:40])
		item.SrcMasterInstID = binary.LittleEndian.Uint16(rec[40:42])
		item.IFF = rec[51]
		item.Buff = rec[52]
		item.Result = rec[53]
		item.IsActivation = rec[54]
		item.IsBuffRemove = rec[55]
		item.IsNinety = rec[56]
		item.IsFifty = rec[57]
		item.IsMoving = rec[58]
		item.IsStateChange = rec[59]
		item.IsFlanking = rec[60]
		item.IsShields = rec[61]
		item.IsOffcycle = rec[62]
		return item
	}

	// Revision 1 layout. Later revisions are decoded with this layout as
	// a best effort; unmapped records survive via Raw either way.
	item.OverstackValue = binary.LittleEndian.Uint32(rec[32:36])
	item.SkillID = binary.LittleEndian.Uint32(rec[36:40])
	item.SrcInstID = binary.LittleEndian.Uint16(rec[40:42])
	item.DstInstID = binary.LittleEndian.Uint16(rec[42:44])
	item.SrcMasterInstID = binary.LittleEndian.Uint16(rec[44:46])
	item.DstMasterInstID = binary.LittleEndian.Uint16(rec[46:48])
	item.IFF = rec[48]
	item.Buff = rec[49]
	item.Result = rec[50]
	item.IsActivation = rec[51]
	item.IsBuffRemove = rec[52]
	item.IsNinety = rec[53]
	item.IsFifty = rec[54]
	item.IsMoving = rec[55]
	item.IsStateChange = rec[56]
	item.IsFlanking = rec[57]
	item.IsShields = rec[58]
	item.IsOffcycle = rec[59]
	return item
}

// decodeName extracts a NUL-terminated UTF-8 string from a fixed block.
// Invalid UTF-8 bytes are dropped rather than failing the record.
func decodeName(block []byte) string {
	if i := bytes.IndexByte(block, 0); i >= 0 {
		block = block[:i]
	}
	if utf8.Valid(block) {
		return string(block)
	}
	return string(bytes.ToValidUTF8(block, nil))
}
