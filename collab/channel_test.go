package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agenthive/core"
)

func newTestChannel(agents ...string) *Channel {
	c := NewChannel(nil)
	for _, a := range agents {
		c.Register(a)
	}
	return c
}

func TestSendDeliversInOrder(t *testing.T) {
	c := newTestChannel("a", "b")

	require.NoError(t, c.Send(core.NewMessage(core.MessageInfoShare, "a", "b", "first")))
	require.NoError(t, c.Send(core.NewMessage(core.MessageInfoShare, "a", "b", "second")))

	msgs := c.Drain("b")
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)

	// Drain is read-once.
	assert.Empty(t, c.Drain("b"))
}

func TestSendUnknownRecipientFails(t *testing.T) {
	c := newTestChannel("a")
	err := c.Send(core.NewMessage(core.MessageInfoShare, "a", "ghost", "hello"))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBroadcastExcludesSender(t *testing.T) {
	c := newTestChannel("a", "b", "c")

	n := c.Broadcast(core.NewMessage(core.MessageStatusUpdate, "a", "", "done"))
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, c.MailboxLen("a"))
	assert.Equal(t, 1, c.MailboxLen("b"))
	assert.Equal(t, 1, c.MailboxLen("c"))
}

func TestSendWithEmptyToBroadcasts(t *testing.T) {
	c := newTestChannel("a", "b", "c")
	require.NoError(t, c.Send(core.NewMessage(core.MessageInfoShare, "a", "", "to everyone")))
	assert.Equal(t, 1, c.MailboxLen("b"))
	assert.Equal(t, 1, c.MailboxLen("c"))
}

func TestUnregisterDropsMailbox(t *testing.T) {
	c := newTestChannel("a", "b")
	require.NoError(t, c.Send(core.NewMessage(core.MessageInfoShare, "a", "b", "pending")))
	c.Unregister("b")
	assert.Empty(t, c.Drain("b"))
	assert.Equal(t, []string{"a"}, c.Agents())
}

func TestEmergencyAlertIsCriticalBroadcast(t *testing.T) {
	c := newTestChannel("a", "b")

	n := c.EmergencyAlert("a", "rate limit breach")
	assert.Equal(t, 1, n)

	msgs := c.Drain("b")
	require.Len(t, msgs, 1)
	assert.Equal(t, core.MessageEmergencyAlert, msgs[0].Type)
	assert.Equal(t, core.PriorityCritical, msgs[0].Priority)
	assert.True(t, msgs[0].RequiresResponse)
}

func TestSessionDecisionVoting(t *testing.T) {
	c := newTestChannel("a", "b", "c")
	sess := c.CreateSession("choose a database", "a", "b")

	decision, err := c.ProposeDecision(sess.ID, "a", "use postgres")
	require.NoError(t, err)

	// The other participant was notified, the proposer was not.
	assert.Equal(t, 1, c.MailboxLen("b"))
	assert.Equal(t, 0, c.MailboxLen("a"))

	require.NoError(t, c.VoteOnDecision(sess.ID, decision.ID, "a", true))
	require.NoError(t, c.VoteOnDecision(sess.ID, decision.ID, "b", true))

	// Re-voting upserts: last write wins, no duplicate entries.
	require.NoError(t, c.VoteOnDecision(sess.ID, decision.ID, "a", false))

	got, err := c.GetSession(sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Decisions, 1)
	votes := got.Decisions[0].Votes
	assert.Len(t, votes, 2)
	assert.False(t, votes["a"])
	assert.True(t, votes["b"])
}

func TestVoteRequiresParticipation(t *testing.T) {
	c := newTestChannel("a", "b", "c")
	sess := c.CreateSession("scope the sprint", "a", "b")
	decision, err := c.ProposeDecision(sess.ID, "a", "cut the reporting feature")
	require.NoError(t, err)

	err = c.VoteOnDecision(sess.ID, decision.ID, "c", true)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestVoteOnUnknownSessionOrDecision(t *testing.T) {
	c := newTestChannel("a", "b")
	sess := c.CreateSession("anything", "a", "b")

	assert.ErrorIs(t, c.VoteOnDecision("ghost", "d", "a", true), core.ErrNotFound)
	assert.ErrorIs(t, c.VoteOnDecision(sess.ID, "ghost", "a", true), core.ErrNotFound)
}

func TestAddArtifactOverwrites(t *testing.T) {
	c := newTestChannel("a")
	sess := c.CreateSession("design doc", "a")

	require.NoError(t, c.AddArtifact(sess.ID, "outline", "v1"))
	require.NoError(t, c.AddArtifact(sess.ID, "outline", "v2"))

	got, err := c.GetSession(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Artifacts["outline"])

	assert.ErrorIs(t, c.AddArtifact("ghost", "x", "y"), core.ErrNotFound)
}
