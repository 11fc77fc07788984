// Package server owns the speech HTTP listener.
//
// A Manager is constructed explicitly and shared by reference between the
// serve loop and whatever presents its status. It is the only writer of the
// server State; Start and Stop are serialized, and the state becomes
// StateRunning only after the listener is bound. The single route, GET /say,
// is served by Handler.
package server
