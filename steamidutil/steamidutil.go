package steamidutil

import (
	"fmt"
	"math"
)

// A SteamID is a packed 64-bit unsigned integer. From least to most
// significant bit:
//
//	account id    32 bits (bit 0 of which is the auth server bit in ID2)
//	instance      20 bits
//	account type   4 bits
//	universe       8 bits
const (
	accountIDBits   = 32
	instanceBits    = 20
	accountTypeBits = 4
	universeBits    = 8

	accountIDMask   = (1 << accountIDBits) - 1
	instanceMask    = (1 << instanceBits) - 1
	accountTypeMask = (1 << accountTypeBits) - 1
	universeMask    = (1 << universeBits) - 1

	instanceShift    = accountIDBits
	accountTypeShift = instanceShift + instanceBits
	universeShift    = accountTypeShift + accountTypeBits
)

const (
	// accountTypeIdentifierIndividual is the ID64 of account 0 with instance 1
	// on the public universe with the Individual account type.
	accountTypeIdentifierIndividual = 76561197960265728
)

type SteamID struct {
	AccountID   uint32
	Instance    uint32
	AccountType AccountType
	Universe    Universe
}

func New() SteamID {
	return SteamID{
		AccountID:   0,
		Instance:    1,
		AccountType: AccountTypeIndividual,
		Universe:    UniversePublic,
	}
}

// FromID64 unpacks id into its four fields.
func FromID64(id uint64) SteamID {
	s := New()
	s.SetID64(id)
	return s
}

// SetID64 overwrites every field of s with the fields packed in id. A field
// value that does not fit its destination type falls back to 1, which the
// masks make unreachable.
func (s *SteamID) SetID64(id uint64) {
	s.AccountID = narrow32(id & accountIDMask)
	s.Instance = narrow32((id >> instanceShift) & instanceMask)
	s.AccountType = AccountType(narrow8((id >> accountTypeShift) & accountTypeMask))
	s.Universe = Universe(narrow8((id >> universeShift) & universeMask))
}

func narrow32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return 1
	}

	return uint32(v)
}

func narrow8(v uint64) uint8 {
	if v > math.MaxUint8 {
		return 1
	}

	return uint8(v)
}

func (s SteamID) ID64() uint64 {
	return uint64(s.AccountID) |
		uint64(s.Instance)<<instanceShift |
		uint64(s.AccountType)<<accountTypeShift |
		uint64(s.Universe)<<universeShift
}

// ID2 renders s as STEAM_X:Y:Z. The auth server bit and the 31-bit account
// number both come out of AccountID.
func (s SteamID) ID2() string {
	authServer := s.AccountID & 1
	accountNumber := (s.AccountID >> 1) & 0x7FFFFFFF

	return fmt.Sprintf("STEAM_%d:%d:%d", s.Universe, authServer, accountNumber)
}

func (s SteamID) ID3() string {
	return fmt.Sprintf("[%c:%d:%d]", s.AccountType.Char(s.Instance), s.Universe, s.AccountID)
}

func (s SteamID) String() string {
	return s.ID3()
}

// Convert detects the format of id and returns its packed ID64 form.
func Convert(id string) (uint64, error) {
	format, err := DetectFormat(id)
	if err != nil {
		return 0, err
	}

	return convert(id, format)
}

func convert(id string, format Format) (uint64, error) {
	switch format {
	case FormatID64:
		return parseID64(id)
	case FormatID2:
		return ParseID2(id)
	case FormatID3:
		return ParseID3(id)
	}

	return 0, ErrUnrecognizedFormat
}

// Parse is Convert followed by FromID64. The detected format is returned
// alongside the decoded value.
func Parse(id string) (SteamID, Format, error) {
	format, err := DetectFormat(id)
	if err != nil {
		return SteamID{}, FormatUnknown, err
	}

	id64, err := convert(id, format)
	if err != nil {
		return SteamID{}, format, err
	}

	return FromID64(id64), format, nil
}
