// Package stream manages the lifetime of event-stream sessions.
//
// A Manager opens one session per stream request. Each session moves through
// Opening, Open, Closing and Closed. The first terminal signal to fire runs
// the session's teardown exactly once. Teardown closes the protocol session,
// removes the id from the registry and finally closes the done channel.
//
// Side-channel requests reach a session through Manager.Deliver. Requests for
// one session are handed to the transport one at a time, in arrival order.
package stream
