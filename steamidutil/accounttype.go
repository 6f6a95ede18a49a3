package steamidutil

import "strconv"

type AccountType uint8

const (
	AccountTypeInvalid AccountType = iota
	AccountTypeIndividual
	AccountTypeMultiseat
	AccountTypeGameServer
	AccountTypeAnonGameServer
	AccountTypePending
	AccountTypeContentServer
	AccountTypeClan
	AccountTypeChat
	AccountTypeConsoleUser
	AccountTypeAnonUser
)

var accountTypeNames = [...]string{
	AccountTypeInvalid:        "Invalid",
	AccountTypeIndividual:     "Individual",
	AccountTypeMultiseat:      "Multiseat",
	AccountTypeGameServer:     "GameServer",
	AccountTypeAnonGameServer: "AnonGameServer",
	AccountTypePending:        "Pending",
	AccountTypeContentServer:  "ContentServer",
	AccountTypeClan:           "Clan",
	AccountTypeChat:           "Chat",
	AccountTypeConsoleUser:    "ConsoleUser",
	AccountTypeAnonUser:       "AnonUser",
}

// accountTypeChars is the ID3 letter of each account type. Chat is resolved
// from the instance flags in Char. ConsoleUser has no letter of its own and
// shares 'I' with Invalid.
var accountTypeChars = [...]rune{
	AccountTypeInvalid:        'I',
	AccountTypeIndividual:     'U',
	AccountTypeMultiseat:      'M',
	AccountTypeGameServer:     'G',
	AccountTypeAnonGameServer: 'A',
	AccountTypePending:        'P',
	AccountTypeContentServer:  'C',
	AccountTypeClan:           'g',
	AccountTypeChat:           'c',
	AccountTypeConsoleUser:    'I',
	AccountTypeAnonUser:       'a',
}

// charAccountTypes is the reverse of accountTypeChars. All three chat letters
// map back to Chat, so the chat flavour does not survive a round trip.
var charAccountTypes = map[rune]AccountType{
	'I': AccountTypeInvalid,
	'U': AccountTypeIndividual,
	'M': AccountTypeMultiseat,
	'G': AccountTypeGameServer,
	'A': AccountTypeAnonGameServer,
	'P': AccountTypePending,
	'C': AccountTypeContentServer,
	'g': AccountTypeClan,
	'c': AccountTypeChat,
	'T': AccountTypeChat,
	'L': AccountTypeChat,
	'a': AccountTypeAnonUser,
}

// Chat instance flags, found in the top 8 bits of the 20-bit instance.
const (
	chatInstanceFlagsShift = 12
	chatInstanceFlagsMask  = 0xFF

	ChatInstanceFlagMMSLobby = 1
	ChatInstanceFlagLobby    = 2
	ChatInstanceFlagClan     = 4
)

// ChatInstance returns an instance value carrying the given chat flags.
func ChatInstance(flags uint8) uint32 {
	return uint32(flags) << chatInstanceFlagsShift
}

// Char returns the ID3 letter for t. instance is only consulted for Chat.
// Unknown account types render as 'I'.
func (t AccountType) Char(instance uint32) rune {
	if t == AccountTypeChat {
		switch (instance >> chatInstanceFlagsShift) & chatInstanceFlagsMask {
		case ChatInstanceFlagMMSLobby:
			return 'T'
		case ChatInstanceFlagLobby:
			return 'L'
		default:
			return 'c'
		}
	}

	if int(t) >= len(accountTypeChars) {
		return 'I'
	}

	return accountTypeChars[t]
}

func (t AccountType) String() string {
	if int(t) >= len(accountTypeNames) {
		return "AccountType(" + strconv.Itoa(int(t)) + ")"
	}

	return accountTypeNames[t]
}

// AccountTypeFromChar maps an ID3 letter to its account type. Letters
// outside the table are Invalid.
func AccountTypeFromChar(c rune) AccountType {
	t, ok := charAccountTypes[c]
	if !ok {
		return AccountTypeInvalid
	}

	return t
}

type Universe uint8

const (
	UniverseInvalid Universe = iota
	UniversePublic
	UniverseBeta
	UniverseInternal
	UniverseDev
	UniverseRC
)

var universeNames = [...]string{
	UniverseInvalid:  "Invalid",
	UniversePublic:   "Public",
	UniverseBeta:     "Beta",
	UniverseInternal: "Internal",
	UniverseDev:      "Dev",
	UniverseRC:       "RC",
}

func (u Universe) String() string {
	if int(u) >= len(universeNames) {
		return "Universe(" + strconv.Itoa(int(u)) + ")"
	}

	return universeNames[u]
}
