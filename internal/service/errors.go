package service

import "errors"

var (
	ErrInvalidDocument = errors.New("invalid document input")

	ErrEncryptFailed = errors.New("document encryption failed")
	ErrDecryptFailed = errors.New("document decryption failed")

	ErrLedgerWriteFailed = errors.New("ledger write failed")
	ErrLedgerReadFailed  = errors.New("ledger read failed")
)
