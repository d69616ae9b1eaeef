package utils

import (
	"errors"
	"math/rand/v2"
	"strconv"
)

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

const (
	roomCodeMin = 1000
	roomCodeMax = 9999
	maxAttempts = 64
)

var ErrNoRoomCode = errors.New("could not find a free room code")

// GenerateRoomCode returns a random four digit room code.
func GenerateRoomCode() string {
	return strconv.Itoa(roomCodeMin + rand.IntN(roomCodeMax-roomCodeMin+1))
}

// UniqueRoomCode draws codes until taken reports one as free. The code is
// not reserved; the room only exists once someone joins it.
func UniqueRoomCode(taken func(code string) bool) (string, error) {
	for range maxAttempts {
		code := GenerateRoomCode()
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrNoRoomCode
}
