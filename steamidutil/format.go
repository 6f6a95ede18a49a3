package steamidutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrUnrecognizedFormat = errors.New("unable to parse to any SteamID format")
	ErrMalformedNumber    = errors.New("malformed number")
)

type Format uint8

const (
	FormatUnknown Format = iota
	FormatID64
	FormatID2
	FormatID3
)

func (f Format) String() string {
	switch f {
	case FormatID64:
		return "SteamID64"
	case FormatID2:
		return "SteamID2"
	case FormatID3:
		return "SteamID3"
	}

	return "Unknown"
}

var (
	// The account captures accept any Unicode decimal digit so that non-ASCII
	// digits reach the parse step and fail there as malformed numbers.
	id2Pattern = regexp.MustCompile(`^STEAM_([0-5]):([01]):(\p{Nd}+)$`)
	id3Pattern = regexp.MustCompile(`^\[(.):([01]):(\p{Nd}+)\]$`)
)

// DetectFormat classifies id by shape only. A decimal uint64, optionally
// preceded by a single '+', is always ID64 and is checked first. Numbers that overflow inside an otherwise
// matching ID2 or ID3 are left for the parse step to reject.
func DetectFormat(id string) (Format, error) {
	if _, err := parseDecimal(id); err == nil {
		return FormatID64, nil
	}

	if id2Pattern.MatchString(id) {
		return FormatID2, nil
	}

	if id3Pattern.MatchString(id) {
		return FormatID3, nil
	}

	return FormatUnknown, ErrUnrecognizedFormat
}

// parseDecimal is strconv.ParseUint with one optional leading '+'.
func parseDecimal(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, 64)
}

func parseID64(id string) (uint64, error) {
	v, err := parseDecimal(id)
	if err != nil {
		return 0, fmt.Errorf("%w: parse steamID64: %w", ErrMalformedNumber, err)
	}

	return v, nil
}

// ParseID2 packs a STEAM_X:Y:Z string. The result always carries the
// Individual account type and instance 1 because ID2 has no room for either.
func ParseID2(id string) (uint64, error) {
	m := id2Pattern.FindStringSubmatch(id)
	if m == nil {
		return 0, ErrUnrecognizedFormat
	}

	universe, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		universe = 1
	}

	authServer, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse auth server: %w", ErrMalformedNumber, err)
	}

	accountNumber, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse account number: %w", ErrMalformedNumber, err)
	}

	id64 := (universe << universeShift) | authServer | (accountNumber << 1) | accountTypeIdentifierIndividual

	return id64, nil
}

// ParseID3 packs a [T:U:N] string. Unlike ParseID2 the instance is left at 0
// and N is used as the whole account id.
func ParseID3(id string) (uint64, error) {
	m := id3Pattern.FindStringSubmatch(id)
	if m == nil {
		return 0, ErrUnrecognizedFormat
	}

	c := 'I'
	for _, r := range m[1] {
		c = r
	}

	accountType := uint64(AccountTypeFromChar(c))

	universe, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		universe = 1
	}

	accountID, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse account id: %w", ErrMalformedNumber, err)
	}

	id64 := (accountType << accountTypeShift) | (universe << universeShift) | accountID

	return id64, nil
}
