// Package events publishes task lifecycle events to in-process subscribers.
//
// The task runner emits a TaskEvent whenever a task is accepted or reaches a
// terminal state. Subscribers (audit logging, metrics) register an
// EventHandler with an EventEmitter and never need to import the task package.
package events
