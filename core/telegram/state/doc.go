// Package state keeps short conversational dialog state per chat, such as
// "waiting for a number", together with the handlers bound to each state.
package state
