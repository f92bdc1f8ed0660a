// Package coordinator reconciles locally queued actions with the remote
// user service.
//
// A Coordinator is an actor: one goroutine (Run) owns the pending queue,
// the set of actions currently being posted, and the session epoch. Public
// methods only enqueue messages and never block on the network. Remote
// calls run on their own goroutines and storage calls run on a single
// serial worker; both report back through the same mailbox, so every
// mutation of coordinator state happens on the Run goroutine.
//
// Each logical operation produces exactly one outcome event on the state
// container: PostFailed or ActionsPosted for a post, UserFetched or
// FetchFailed for a fetch. Results that lost a race are dropped without an
// event:
//
//   - a completion issued before the latest identity reset (older epoch);
//   - a fetch that completes while a post is in flight, or after a post
//     started following the fetch.
package coordinator
