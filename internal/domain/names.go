package domain

// Variable names under which profile vectors are registered in a LevelDataStore.
const (
	NameAirPressure     = "MetaData/air_pressure"
	NameObsTemperature  = "ObsValue/air_temperature"
	NameHofXTemperature = "HofX/air_temperature"
	NameTObsCorrection  = "ObsCorrection/air_temperature"
	NameQCTFlags        = "QCFlags/air_temperature"
)

// Counter names used in Summary.
const (
	CounterNumAnyErrors   = "NumAnyErrors"
	CounterNumSamePErrObs = "NumSamePErrObs"
)

// MissingFloat is the sentinel for an unreported float value.
const MissingFloat = -3.3687953e+38

// T0C converts between Kelvin and Celsius.
const T0C = 273.15
