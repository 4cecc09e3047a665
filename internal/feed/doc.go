// Package feed supplies dashboard events and news sources.
//
// Two [Provider] implementations exist: [Fixture] serves built-in sample
// data from memory and [Remote] talks to the backend service. [Fallback]
// wraps a Remote so read failures degrade to fixture data with a warning
// instead of an error.
package feed
