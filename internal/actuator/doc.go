// Package actuator defines the narrow capability interface to the
// UI-driving backend: one atomic action in, success or a typed failure out.
//
// The engine treats the actuator as opaque. Failures cross the boundary as
// *Failure values tagged with one of a fixed set of kinds, so the retry
// policy switches on the kind rather than inspecting message text. The
// chromedp-backed Browser in this package is the production implementation;
// tests substitute scripted ones.
package actuator
