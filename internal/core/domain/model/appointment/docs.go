// Package appointment models the visit date negotiated between coordinator,
// technician and client for a service order.
//
// A coordinator proposes a date when assigning the order. The client either
// confirms it or asks for a new one with a reason; the coordinator then
// re-proposes. Closing the order closes its appointments as Completada, the
// single terminal state used for finished work.
package appointment
