// Package gridastar provides an A* shortest-path engine for 4-connected grids
// with obstacles.
//
// It exposes two main entry points:
//
//   - Search: run the algorithm to completion and get a Result.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//
// Both report their progress through an Observer as an ordered stream of
// Visited, FrontierAdded and PathMember events, so a renderer can animate the
// search without the engine knowing anything about it.
//
// The Grid is owned by the caller. A search borrows it for one run and only
// touches the search-scoped fields of its cells. Obstacles and endpoints must
// not be edited while a run is in progress; serializing edits against runs is
// the caller's job.
package gridastar
