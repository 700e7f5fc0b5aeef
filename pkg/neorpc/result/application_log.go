package result

import (
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/core/state"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// ApplicationLog represents the results of the script executions for a block
// or a transaction.
type ApplicationLog struct {
	Container     util.Uint256
	IsTransaction bool
	Executions    []state.Execution
}

// applicationLogAux is an auxiliary struct for ApplicationLog JSON marshalling.
type applicationLogAux struct {
	TxHash     *util.Uint256     `json:"txid,omitempty"`
	BlockHash  *util.Uint256     `json:"blockhash,omitempty"`
	Executions []json.RawMessage `json:"executions"`
}

// MarshalJSON implements the json.Marshaler interface.
func (l ApplicationLog) MarshalJSON() ([]byte, error) {
	result := &applicationLogAux{
		Executions: make([]json.RawMessage, len(l.Executions)),
	}
	if l.IsTransaction {
		result.TxHash = &l.Container
	} else {
		result.BlockHash = &l.Container
	}
	var err error
	for i := range l.Executions {
		result.Executions[i], err = json.Marshal(l.Executions[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal execution #%d: %w", i, err)
		}
	}
	return json.Marshal(result)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *ApplicationLog) UnmarshalJSON(data []byte) error {
	aux := new(applicationLogAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch {
	case aux.TxHash != nil:
		l.Container = *aux.TxHash
		l.IsTransaction = true
	case aux.BlockHash != nil:
		l.Container = *aux.BlockHash
	default:
		return fieldError("txid", errMissing)
	}
	l.Executions = make([]state.Execution, len(aux.Executions))
	for i := range l.Executions {
		err := json.Unmarshal(aux.Executions[i], &l.Executions[i])
		if err != nil {
			return fieldError("executions", fmt.Errorf("#%d: %w", i, err))
		}
	}
	return nil
}

// GetException returns the first fault exception of the log, if any.
func (l *ApplicationLog) GetException() string {
	for i := range l.Executions {
		if l.Executions[i].FaultException != "" {
			return l.Executions[i].FaultException
		}
	}
	return ""
}
