// Package sinks provides publishers for controller commands.
//
// Publishing is fire-and-forget: [motion.Publisher.Publish] has no error
// return, so sinks that can fail (I/O, broker) log the failure and move on.
package sinks
