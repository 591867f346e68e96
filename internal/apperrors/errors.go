package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists,
// typically surfaced from a uniqueness constraint.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation was attempted from a lifecycle state
// that does not permit it.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrAlreadyProcessed indicates a one-way state transition was attempted twice.
var ErrAlreadyProcessed = errors.New("request already processed")

// ErrInsufficientFunds indicates the source account balance cannot cover the movement.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAccountNotActive indicates a movement touched an account that is not active.
var ErrAccountNotActive = errors.New("account is not active")

// ErrCurrencyMismatch indicates a movement currency differs from an involved account's currency.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrCreditLimitExceeded indicates a credit card draw would exceed the available limit.
var ErrCreditLimitExceeded = errors.New("credit limit exceeded")

// ErrExpired indicates a time-boxed resource (e.g. a dynamic QR code) is past its expiry.
var ErrExpired = errors.New("resource expired")

// ErrGenerationExhausted indicates the identifier generator gave up after its retry cap.
var ErrGenerationExhausted = errors.New("identifier generation attempts exhausted")

// ErrUnavailable indicates a transient store failure or timeout; the operation is retryable.
var ErrUnavailable = errors.New("store unavailable")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
