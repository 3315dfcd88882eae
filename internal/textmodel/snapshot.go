package textmodel

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the serialisable form of a buffer: the original text plus the
// edit log. Replaying the log rebuilds attribution exactly.
type Snapshot struct {
	Original string `msgpack:"orig"`
	Writers  int    `msgpack:"writers"`
	Edits    []Edit `msgpack:"edits"`
}

func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{
		Original: b.original,
		Writers:  len(b.counts),
		Edits:    append([]Edit(nil), b.log...),
	}
}

// Restore replays s into a fresh buffer.
func Restore(s Snapshot) (*Buffer, error) {
	b := New(s.Original)
	for b.Writers() < s.Writers {
		b.NewWriterID()
	}
	for i, e := range s.Edits {
		if err := b.checkWriter(e.Writer); err != nil {
			return nil, fmt.Errorf("textmodel: edit %d: %w", i, err)
		}
		if e.Seq != b.counts[e.Writer] {
			return nil, fmt.Errorf("textmodel: edit %d: out of order sequence %d for writer %d", i, e.Seq, e.Writer)
		}
		var err error
		if e.IsInsert() {
			err = b.Insert(e.Writer, e.Offset, e.Text)
		} else {
			err = b.Delete(e.Writer, e.Offset, e.Deleted)
		}
		if err != nil {
			return nil, fmt.Errorf("textmodel: edit %d: %w", i, err)
		}
	}
	return b, nil
}

func (s Snapshot) MarshalBinary() ([]byte, error) {
	type plain Snapshot
	return msgpack.Marshal(plain(s))
}

func (s *Snapshot) UnmarshalBinary(data []byte) error {
	type plain Snapshot
	var p plain
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("textmodel: decode snapshot: %w", err)
	}
	*s = Snapshot(p)
	return nil
}
