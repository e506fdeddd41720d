package errors

// ParsingError identifies a failure found while parsing a config file or message.
type ParsingError uint8

const (
	ParseUnspecified ParsingError = iota
	ParseMissingOpeningTag
	ParseMissingClosingTag
	ParseExceedsMaxValueLength
	ParseEmptyConfig
	ParseNoTagsFound
	ParseInvalidMessagePointer
	ParseInsufficientMessageSize
	ParseExceedsMaxMessageSize
)

var parsingMessages = [...]string{
	ParseUnspecified:             "unspecified parsing error",
	ParseMissingOpeningTag:       "missing opening tag",
	ParseMissingClosingTag:       "missing closing tag",
	ParseExceedsMaxValueLength:   "value exceeds maximum length",
	ParseEmptyConfig:             "config is empty",
	ParseNoTagsFound:             "no tags found",
	ParseInvalidMessagePointer:   "invalid message pointer",
	ParseInsufficientMessageSize: "insufficient message size",
	ParseExceedsMaxMessageSize:   "message exceeds maximum size",
}

func (e ParsingError) Error() string { return lookup(parsingMessages[:], uint8(e)) }

// Category returns CategoryParsing.
func (ParsingError) Category() Category { return CategoryParsing }

// Type returns the type bits.
func (e ParsingError) Type() uint8 { return uint8(e) }

// ValidationError identifies a setting value that could not be accepted.
type ValidationError uint8

const (
	ValidateUnspecified ValidationError = iota
	SettingUnset
	ContainsInvalidCharacter
	MissingValue
	NegativeValue
	ExceedsMaxLength
	OutOfTypeRange
	BelowTypeRange
	AboveTypeRange
	BelowMinThreshold
	AboveMaxThreshold
	InvalidOption
)

var validationMessages = [...]string{
	ValidateUnspecified:      "unspecified validation error",
	SettingUnset:             "setting was never set",
	ContainsInvalidCharacter: "value contains an invalid character",
	MissingValue:             "value is empty",
	NegativeValue:            "value is negative",
	ExceedsMaxLength:         "value is too long",
	OutOfTypeRange:           "value is out of type range",
	BelowTypeRange:           "value is below type range",
	AboveTypeRange:           "value is above type range",
	BelowMinThreshold:        "value is below minimum threshold",
	AboveMaxThreshold:        "value is above maximum threshold",
	InvalidOption:            "value is not a valid option",
}

func (e ValidationError) Error() string { return lookup(validationMessages[:], uint8(e)) }

// Category returns CategoryValidation.
func (ValidationError) Category() Category { return CategoryValidation }

// Type returns the type bits.
func (e ValidationError) Type() uint8 { return uint8(e) }

// VerificationError identifies a whole-record rule that did not hold.
type VerificationError uint8

const (
	VerifyUnspecified VerificationError = iota
	NoTriggerEnabled
	NoDataDestinationEnabled
)

var verificationMessages = [...]string{
	VerifyUnspecified:        "unspecified verification error",
	NoTriggerEnabled:         "no trigger enabled",
	NoDataDestinationEnabled: "no data destination enabled",
}

func (e VerificationError) Error() string { return lookup(verificationMessages[:], uint8(e)) }

// Category returns CategoryVerification.
func (VerificationError) Category() Category { return CategoryVerification }

// Type returns the type bits.
func (e VerificationError) Type() uint8 { return uint8(e) }

// IOError identifies a failure to load a config file from storage.
type IOError uint8

const (
	IOUnspecified IOError = iota
	FileNotFound
	PathNotFound
	InvalidName
	FileTooLarge
)

var ioMessages = [...]string{
	IOUnspecified: "unknown file I/O error",
	FileNotFound:  "file could not be found",
	PathNotFound:  "path could not be found",
	InvalidName:   "file path format is invalid",
	FileTooLarge:  "file is too large",
}

func (e IOError) Error() string { return lookup(ioMessages[:], uint8(e)) }

func lookup(messages []string, idx uint8) string {
	if int(idx) < len(messages) {
		return messages[idx]
	}
	return messages[0]
}
