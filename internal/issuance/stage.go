package issuance

import "fmt"

// Stage is a step of an invocation. Stages run strictly in order and are never retried.
type Stage int

const (
	StageStart Stage = iota
	StageValidateAccounts
	StageCheckOwnershipUnused
	StageLoadCounter
	StageComputeRarity
	StageEnsureReceivingAccount
	StageMintOneUnit
	StagePersistCounter
	StagePersistOwnership
	StageCreatePool
	StageDone
)

var stageNames = map[Stage]string{
	StageStart:                  "start",
	StageValidateAccounts:       "validate_accounts",
	StageCheckOwnershipUnused:   "check_ownership_unused",
	StageLoadCounter:            "load_counter",
	StageComputeRarity:          "compute_rarity",
	StageEnsureReceivingAccount: "ensure_receiving_account",
	StageMintOneUnit:            "mint_one_unit",
	StagePersistCounter:         "persist_counter",
	StagePersistOwnership:       "persist_ownership",
	StageCreatePool:             "create_pool",
	StageDone:                   "done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError is an invocation failure together with the stage it happened in
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
