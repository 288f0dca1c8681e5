package model

import (
	"errors"
	"fmt"
)

type ErrorCode int8

const (
	CodeUnknownError            ErrorCode = 0
	CodeOK                      ErrorCode = 1
	CodeInvalidOperation        ErrorCode = -3
	CodeTokenAlreadyExists      ErrorCode = -17
	CodeMintLimitExceeded       ErrorCode = -16
	CodeTokenNotFound           ErrorCode = -23
	CodeMaxSupplyExceeded       ErrorCode = -27
	CodeInsufficientBalance     ErrorCode = -29
	CodeSoulboundTransferDenied ErrorCode = -40
	CodeVestingScheduleInvalid  ErrorCode = -41
	CodeProofVerificationFailed ErrorCode = -50
)

func (code ErrorCode) String() string {
	messages := map[ErrorCode]string{
		CodeUnknownError:            "Unknown error",
		CodeOK:                      "Operation successful",
		CodeInvalidOperation:        "Invalid operation",
		CodeTokenAlreadyExists:      "Token already deployed",
		CodeMintLimitExceeded:       "Over mint limit",
		CodeTokenNotFound:           "Token does not exist",
		CodeMaxSupplyExceeded:       "Over max supply",
		CodeInsufficientBalance:     "Balance not satisfied",
		CodeSoulboundTransferDenied: "Token is soulbound",
		CodeVestingScheduleInvalid:  "Invalid vesting schedule",
		CodeProofVerificationFailed: "Proof verification failed",
	}

	msg, ok := messages[code]
	if !ok {
		return "Unrecognized error code"
	}
	return msg
}

// LedgerError is implemented by every rejection the state machine returns.
type LedgerError interface {
	error
	Code() ErrorCode
}

// CodeOf returns the ledger code carried by err, CodeOK for nil and
// CodeUnknownError for anything outside the taxonomy.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var le LedgerError
	if errors.As(err, &le) {
		return le.Code()
	}
	return CodeUnknownError
}

type TokenAlreadyExistsError struct {
	Ticker string
}

func (e *TokenAlreadyExistsError) Error() string {
	return fmt.Sprintf("token %s already exists", e.Ticker)
}

func (e *TokenAlreadyExistsError) Code() ErrorCode { return CodeTokenAlreadyExists }

type TokenNotFoundError struct {
	Ticker string
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("token %s not found", e.Ticker)
}

func (e *TokenNotFoundError) Code() ErrorCode { return CodeTokenNotFound }

type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return e.Reason }

func (e *InvalidOperationError) Code() ErrorCode { return CodeInvalidOperation }

type InsufficientBalanceError struct {
	Available Amount
	Required  Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: %s available, %s required", e.Available, e.Required)
}

func (e *InsufficientBalanceError) Code() ErrorCode { return CodeInsufficientBalance }

type MintLimitExceededError struct {
	Limit     Amount
	Requested Amount
}

func (e *MintLimitExceededError) Error() string {
	return fmt.Sprintf("mint limit %s exceeded by request %s", e.Limit, e.Requested)
}

func (e *MintLimitExceededError) Code() ErrorCode { return CodeMintLimitExceeded }

// MaxSupplyExceededError reports the logical, unclamped total the mint would
// have produced.
type MaxSupplyExceededError struct {
	MaxSupply      Amount
	AttemptedTotal Amount
}

func (e *MaxSupplyExceededError) Error() string {
	return fmt.Sprintf("max supply %s exceeded by attempted total %s", e.MaxSupply, e.AttemptedTotal)
}

func (e *MaxSupplyExceededError) Code() ErrorCode { return CodeMaxSupplyExceeded }

type SoulboundTransferDeniedError struct {
	Ticker string
}

func (e *SoulboundTransferDeniedError) Error() string {
	return fmt.Sprintf("token %s is soulbound and cannot be transferred", e.Ticker)
}

func (e *SoulboundTransferDeniedError) Code() ErrorCode { return CodeSoulboundTransferDenied }

type VestingScheduleInvalidError struct {
	Reason string
}

func (e *VestingScheduleInvalidError) Error() string {
	return "invalid vesting schedule: " + e.Reason
}

func (e *VestingScheduleInvalidError) Code() ErrorCode { return CodeVestingScheduleInvalid }

type ProofVerificationFailedError struct {
	Reason string
}

func (e *ProofVerificationFailedError) Error() string {
	return "proof verification failed: " + e.Reason
}

func (e *ProofVerificationFailedError) Code() ErrorCode { return CodeProofVerificationFailed }
