// Package archive keeps finished kiosk conversations. Transcripts are
// written to a local badger outbox first and exported to object storage in
// batches.
package archive

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-kiosk/core/chat"
)

// Record is the stored form of a chat transcript.
type Record struct {
	ID        string          `msgpack:"id" json:"id"`
	Question  string          `msgpack:"question" json:"question"`
	Color     string          `msgpack:"color" json:"color,omitempty"`
	Messages  []RecordMessage `msgpack:"messages" json:"messages"`
	Turns     int             `msgpack:"turns" json:"turns"`
	StartedAt time.Time       `msgpack:"started_at" json:"startedAt"`
	EndedAt   time.Time       `msgpack:"ended_at" json:"timestamp"`
	Reason    string          `msgpack:"reason" json:"reason"`

	key []byte
}

type RecordMessage struct {
	Role    string `msgpack:"role" json:"role"`
	Content string `msgpack:"content" json:"content"`
}

// NewRecord converts a transcript into a record with a fresh ID.
func NewRecord(transcript chat.Transcript) (Record, error) {
	record := Record{ID: uuid.NewString()}
	if err := copier.Copy(&record, &transcript); err != nil {
		return Record{}, fmt.Errorf("failed to copy transcript: %w", err)
	}
	if record.EndedAt.IsZero() {
		record.EndedAt = time.Now()
	}
	return record, nil
}

func (r Record) storageKey() []byte {
	if r.key != nil {
		return r.key
	}
	return []byte(fmt.Sprintf("%s%020d/%s", keyPrefix, r.EndedAt.UnixNano(), r.ID))
}
