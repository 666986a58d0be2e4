// Package technician provides the Technician entity: a field worker with a
// coverage zone and an availability flag checked at assignment time.
package technician
