package service

import (
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

// Restore replays a stored snapshot into the visible state without calling the
// backend. Unknown or evicted ids are logged and ignored; the return value
// reports whether a snapshot was found.
func (c *RunController) Restore(snapshotID string) (domain.SessionSnapshot, bool) {
	snapshot, ok := c.sessions.Find(func(s domain.SessionSnapshot) bool {
		return s.ID == snapshotID
	})
	if !ok {
		log.Warn().Str("snapshot_id", snapshotID).Msg("restore requested for unknown session")
		return domain.SessionSnapshot{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.timeline.Clear()
	c.phase = domain.RunPhaseSucceeded
	c.startedAt = nil
	c.query = snapshot.Query
	c.selected = append([]string{}, snapshot.SelectedParticipantIDs...)
	c.result = snapshot.Result.Clone()
	c.errMsg = ""
	c.restoredFrom = snapshot.ID
	c.publishStateLocked()

	log.Debug().Str("snapshot_id", snapshot.ID).Msg("session restored")
	return snapshot, true
}
