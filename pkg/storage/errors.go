package storage

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a record whose id is taken.
var ErrAlreadyExists = errors.New("already exists")

// ErrConflict is returned when an atomic unit lost an optimistic-concurrency race and may be retried.
var ErrConflict = errors.New("concurrent modification")

// ErrInsufficientFunds is returned when a debit would drive a balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAccountVanished is returned when the account an atomic unit depends on does not exist.
var ErrAccountVanished = errors.New("account does not exist")

// ErrNotAStudent is returned when an operation needs a student account and got something else.
var ErrNotAStudent = errors.New("account is not a student")

// ErrNotAStall is returned when an operation needs a stall account and got something else.
var ErrNotAStall = errors.New("account is not a stall")

// ErrDuplicateRecharge is returned when a recharge id has already been applied.
var ErrDuplicateRecharge = errors.New("recharge already applied")
