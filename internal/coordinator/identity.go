package coordinator

import "nathanbeddoewebdev/usersync/internal/session"

func (c *Coordinator) handleLogout() {
	c.reset("logout")
	c.state.Dispatch(session.Event{Kind: session.UserLoggedOut, ShouldClearData: true})
}

func (c *Coordinator) handleAnonymous() {
	clearData := c.state.State().UserID != ""
	if clearData {
		c.reset("anonymous session")
	}
	c.state.Dispatch(session.Event{Kind: session.AnonymousSessionStarted, ShouldClearData: clearData})
}

func (c *Coordinator) handleAuthenticate(userID, token string) {
	clearData := c.state.State().UserID != userID
	if clearData {
		c.reset("user changed")
	}
	c.state.Dispatch(session.Event{
		Kind:            session.UserAuthenticated,
		UserID:          userID,
		Token:           token,
		ShouldClearData: clearData,
	})
	c.fetchIfNotPosting(identity{userID: userID, token: token})
}

// reset abandons all pending work and starts a new epoch, so completions
// issued before it are ignored.
func (c *Coordinator) reset(reason string) {
	dropped := c.pending.len()
	c.pending.clear()
	clear(c.inFlight)
	c.epoch++
	c.logger.Info("session reset", "reason", reason, "dropped", dropped, "epoch", c.epoch)

	f, canForget := c.remote.(forgetter)
	if !c.persistent() && !canForget {
		return
	}
	c.goStorage(func() any {
		if c.persistent() {
			c.log.ClearAll()
		}
		if canForget {
			if err := f.ForgetUser(); err != nil {
				c.logger.Warn("failed to clear cached user", "error", err)
			}
		}
		return storageDoneMsg{}
	})
}
