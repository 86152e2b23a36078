// Package domain models vertical sounding profiles (radiosonde temperature and
// pressure reports) and the per-profile data the quality-control checks read
// and write.
//
// # Data Source
//
// Soundings arrive on the Kafka source topic as one JSON document per profile.
// The upstream loader has already matched each observed level with the
// background (model forecast) temperature interpolated to the observation
// location, and with the bias correction for the reporting instrument.
//
// # Sounding Conventions
//
// Level order:
//
//	Levels are kept in reporting order, index 0..N-1. Reporting order is not
//	guaranteed to be monotonic in pressure; duplicated pressures are common when
//	a sonde reports both a standard and a significant level at the same height.
//
// Units:
//
//	Pressure in Pa (50000 = 500 hPa). Temperatures in Kelvin. Debug output
//	converts to hPa and degrees Celsius (t0c = 273.15).
//
// Missing values:
//
//	A float equal to [MissingFloat] marks an unreported value. JSON null entries
//	in float arrays decode to [MissingFloat].
//
// Bias correction:
//
//	corrected = observed + correction, element-wise, computed once per check.
//	See [CorrectVector].
//
// # Flags
//
// Each level carries an integer bitmask. Bits are OR-ed in and never cleared
// by a check. [FinalRejectFlag] excludes an observation from assimilation;
// [InterpolationFlag] keeps it but records an unresolved conflict with a
// neighbouring level.
//
// # Level Data Store
//
// [LevelDataStore] holds the named vectors of one profile. Checks request
// vectors by name (see names.go). A missing name is a setup bug and surfaces as
// [ErrMissingField]; empty or unequal-length vectors are a data problem and
// make a check skip the profile.
package domain
