package coordinator

import (
	"context"

	"nathanbeddoewebdev/usersync/internal/session"
)

func (c *Coordinator) handleFetchRequest() {
	c.state.Dispatch(session.Event{Kind: session.FetchRequested})
	c.fetchIfNotPosting(c.currentIdentity())
}

// fetchIfNotPosting fetches the remote user, or posts instead when local
// actions are pending so the server sees them first.
func (c *Coordinator) fetchIfNotPosting(id identity) {
	if c.pending.len() > 0 {
		c.postIfNotPosting(id)
		return
	}
	if !id.canSync() {
		c.logger.Debug("fetch skipped: no credentials")
		return
	}

	epoch, postGen := c.epoch, c.postGen
	c.goRemote(func(ctx context.Context) any {
		res := c.remote.FetchUser(ctx, id.userID, id.token)
		return fetchDoneMsg{epoch: epoch, postGen: postGen, result: res}
	})
}

func (c *Coordinator) handleFetchDone(m fetchDoneMsg) {
	if m.epoch != c.epoch {
		c.logger.Debug("discarding fetch result from previous session")
		return
	}
	if m.result.User == nil {
		c.state.Dispatch(session.Event{Kind: session.FetchFailed})
		return
	}
	if c.state.State().IsPostingActions || m.postGen != c.postGen || len(c.inFlight) > 0 {
		c.logger.Debug("discarding fetch result superseded by a post")
		return
	}

	if m.result.IsFresh || c.pending.len() == 0 {
		c.state.Dispatch(session.Event{Kind: session.UserFetched, User: m.result.User})
		return
	}
	c.logger.Debug("rejecting cached user while actions are pending", "pending", c.pending.len())
	c.state.Dispatch(session.Event{Kind: session.FetchFailed})
}
