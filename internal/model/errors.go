package model

import "errors"

// ErrConfiguration marks an invalid or contradictory dependency declaration.
// It is never recovered from: the generator stops and reports it.
var ErrConfiguration = errors.New("configuration error")

// ErrResolution marks a checked-out dependency whose remote or commit could
// not be determined while building a release snapshot.
var ErrResolution = errors.New("resolution error")
