package coordinator

import (
	"context"

	"nathanbeddoewebdev/usersync/internal/domain"
	"nathanbeddoewebdev/usersync/internal/session"
)

func (c *Coordinator) handleEnqueue(a domain.Action) {
	if !a.ShouldSynchronize {
		c.state.Dispatch(session.Event{Kind: session.ActionObserved, Action: &a})
		return
	}

	if !c.pending.add(a) {
		c.logger.Debug("action already queued", "action_id", a.ID)
	}
	c.state.Dispatch(session.Event{Kind: session.ActionQueued, Action: &a})

	if !c.persistent() {
		c.postIfNotPosting(c.currentIdentity())
		return
	}

	epoch := c.epoch
	c.goStorage(func() any {
		c.log.Put(a)
		return persistedMsg{epoch: epoch}
	})
}

func (c *Coordinator) handlePersisted(m persistedMsg) {
	if m.epoch != c.epoch {
		return
	}
	c.postIfNotPosting(c.currentIdentity())
}

// postIfNotPosting starts a post unless the session already shows one in
// progress.
func (c *Coordinator) postIfNotPosting(id identity) {
	if c.state.State().IsPostingActions {
		return
	}
	c.attemptPost(id)
}

// attemptPost sends every pending action that is not already part of an
// outstanding post as one batch.
func (c *Coordinator) attemptPost(id identity) {
	if !id.canSync() {
		c.logger.Debug("post skipped: no credentials", "pending", c.pending.len())
		return
	}
	batch := c.pending.list(c.inFlight)
	if len(batch) == 0 {
		return
	}

	for _, a := range batch {
		c.inFlight[a.ID] = struct{}{}
	}
	c.postGen++
	c.state.Dispatch(session.Event{Kind: session.PostStarted, Actions: batch})
	c.logger.Debug("posting actions", "count", len(batch), "user_id", id.userID)

	epoch := c.epoch
	c.goRemote(func(ctx context.Context) any {
		res := c.remote.PostBatch(ctx, batch, id.userID, id.token)
		return postDoneMsg{epoch: epoch, batch: batch, result: res}
	})
}

func (c *Coordinator) handlePostDone(m postDoneMsg) {
	if m.epoch != c.epoch {
		c.logger.Debug("discarding post result from previous session", "count", len(m.batch))
		return
	}

	ids := domain.ActionIDs(m.batch)
	for _, id := range ids {
		delete(c.inFlight, id)
	}

	if m.result.User == nil {
		c.logger.Info("post failed, actions stay queued", "count", len(m.batch))
		c.state.Dispatch(session.Event{Kind: session.PostFailed, Actions: m.batch})
		return
	}

	c.pending.remove(ids)
	if !c.persistent() {
		c.actionsPosted(m.result.User, m.batch)
		return
	}

	epoch := c.epoch
	user := m.result.User
	c.goStorage(func() any {
		c.log.DeleteMany(ids)
		return depersistedMsg{epoch: epoch, batch: m.batch, user: user}
	})
}

func (c *Coordinator) handleDepersisted(m depersistedMsg) {
	if m.epoch != c.epoch {
		c.logger.Debug("discarding confirmed batch from previous session", "count", len(m.batch))
		return
	}
	c.actionsPosted(m.user, m.batch)
}

func (c *Coordinator) actionsPosted(user *domain.User, batch []domain.Action) {
	c.state.Dispatch(session.Event{Kind: session.ActionsPosted, User: user, Actions: batch})
	c.batchCompleted()
}

// batchCompleted posts whatever is still pending once a batch finished.
func (c *Coordinator) batchCompleted() {
	id := c.currentIdentity()
	if !id.canSync() || c.pending.len() == 0 {
		return
	}
	c.attemptPost(id)
}
