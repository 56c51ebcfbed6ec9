// Package dope implements the Ballistic Core Engine: a deterministic,
// fixed-footprint fusion of IMU/magnetometer/barometer/laser-rangefinder/
// zoom-encoder sensor frames and cartridge/zero configuration into a
// continuously-published firing solution.
//
// Engine is the single entry point. Construct one with NewEngine, feed it
// SensorFrame values via Update, configure it with the Set* methods, and
// read back the current solution with GetSolution/GetMode/GetFaultFlags/
// GetDiagFlags. Engine performs zero dynamic allocation after
// construction and is driven single-threaded by the caller — there is no
// internal goroutine, channel, or mutex.
package dope
