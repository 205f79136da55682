// Package mode implements the editor interaction state machine: the Host
// that owns the active tool, the flow protocol a tool uses to lock the
// host during a multi-step gesture, and the concrete tools.
//
// The host is Idle, Active or Active+Locked. A tool switch while locked is
// ignored. A tool locks the host by starting a flow through the Notifier it
// received in Activate; the notifier is revoked when the tool is
// deactivated, so a stale tool cannot lock or unlock the host.
//
// Deactivating a tool mid-flow discards the partial work: entities created
// for the flow are removed, moved geometry is restored and FlowAborted is
// emitted.
package mode
