// Copyright (c) 2025 ArenaWorks Inc. All Rights Reserved.
// This is licensed software from ArenaWorks Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"errors"
)

var (
	ValidationErrorInvalidKitName   = errors.New("kit name is not a valid kit selector")
	ValidationErrorAlreadyQueued    = errors.New("player already occupies a queue entry")
	ValidationErrorAlreadyInMatch   = errors.New("player is already bound to an active match")
	ValidationErrorKitNotFound      = errors.New("kit definition not found")
	ValidationErrorNoArenaAvailable = errors.New("no arena available for this kit")
	ValidationErrorPlayerOffline    = errors.New("player is not connected")
	ValidationErrorTooFarApart      = errors.New("players are too far apart for an anywhere duel")
	ValidationErrorWorldMismatch    = errors.New("players are not in the same world")
	ValidationErrorMatchCancelled   = errors.New("match was cancelled while being set up")
)

var validationErrorCodeMap = map[error]int{
	ValidationErrorInvalidKitName:   420101,
	ValidationErrorAlreadyQueued:    420102,
	ValidationErrorAlreadyInMatch:   420103,
	ValidationErrorKitNotFound:      420104,
	ValidationErrorNoArenaAvailable: 420105,
	ValidationErrorPlayerOffline:    420106,
	ValidationErrorTooFarApart:      420107,
	ValidationErrorWorldMismatch:    420108,
	ValidationErrorMatchCancelled:   420109,
}

// ValidationErrorCode returns a code for the error.
// It returns 20002 if the error is not registered in the map.
func ValidationErrorCode(err error) int {
	code, ok := validationErrorCodeMap[err]
	if !ok {
		return 20002
	}
	return code
}
