package models

// Error taxonomy used across services; the HTTP helper maps each type to a
// status code. Services return these instead of raw gorm errors.

type ErrorValidation struct{ Message string }

func (e ErrorValidation) Error() string { return e.Message }

type ErrorUnauthorized struct{ Message string }

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct{ Message string }

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct{ Message string }

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorConflict struct{ Message string }

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct{ Message string }

func (e ErrorInternalServer) Error() string { return e.Message }
