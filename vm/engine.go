// Package vm implements the native contract execution engine. Contracts are
// Go packages that register named handler functions; the engine binds each
// call to a blockchain context, enforces one-time construction, and makes
// failed calls leave no state behind.
package vm

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrathod05/SuiWarriors/context"
	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/types"
)

// HandlerFunc is the uniform shape of a contract entry point. Params is the
// JSON-encoded argument struct, or nil for functions without arguments.
type HandlerFunc func(ctx core.Context, params []byte) (any, error)

// Contract bundles a contract's entry points. The constructor runs exactly
// once, during Deploy; it is not reachable through Execute, which is what
// makes initialization single-use.
type Contract struct {
	// Constructor is invoked by Deploy. Optional.
	Constructor HandlerFunc
	// Handlers maps exported function names to their implementations.
	Handlers map[string]HandlerFunc
}

// Config represents engine configuration
type Config struct {
	ContextType   string         // blockchain context type ("memory", "db")
	ContextParams map[string]any // backend-specific context parameters
}

// Engine is responsible for contract deployment and execution
type Engine struct {
	config    *Config
	ctx       types.BlockchainContext
	contracts map[core.Address]*Contract
	titler    cases.Caser
	mu        sync.Mutex
}

// NewEngine creates a new contract engine
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("config is nil")
	}

	ctx, err := context.Get(context.ContextType(config.ContextType), config.ContextParams)
	if err != nil {
		return nil, fmt.Errorf("failed to get context: %w", err)
	}

	return &Engine{
		config:    config,
		ctx:       ctx,
		contracts: make(map[core.Address]*Contract),
		titler:    cases.Title(language.English),
	}, nil
}

// WithContext replaces the engine's blockchain context.
func (e *Engine) WithContext(ctx types.BlockchainContext) *Engine {
	e.ctx = ctx
	return e
}

// GetContext returns the engine's blockchain context.
func (e *Engine) GetContext() types.BlockchainContext {
	return e.ctx
}

// Deploy registers a contract at the given address and runs its constructor.
// Deploying to an occupied address is an error, so a contract's constructor
// can never run twice.
func (e *Engine) Deploy(addr core.Address, contract *Contract, initParams []byte) (any, error) {
	if contract == nil {
		return nil, core.ErrInvalidArgument
	}

	e.mu.Lock()
	if _, exists := e.contracts[addr]; exists {
		e.mu.Unlock()
		return nil, fmt.Errorf("contract already deployed at %s", addr)
	}
	e.contracts[addr] = contract
	e.mu.Unlock()

	if contract.Constructor == nil {
		return nil, nil
	}

	result, err := e.invoke(addr, contract.Constructor, initParams)
	if err != nil {
		// Roll back the registration so a failed deploy can be retried.
		e.mu.Lock()
		delete(e.contracts, addr)
		e.mu.Unlock()
		return nil, err
	}
	return result, nil
}

// Register attaches a contract's handlers at an address without running the
// constructor. Used when reconnecting to persisted state that was already
// deployed in an earlier process.
func (e *Engine) Register(addr core.Address, contract *Contract) error {
	if contract == nil {
		return core.ErrInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.contracts[addr]; exists {
		return fmt.Errorf("contract already registered at %s", addr)
	}
	e.contracts[addr] = contract
	return nil
}

// Execute runs a function on a deployed contract. The sender is taken from
// the context's current transaction info.
func (e *Engine) Execute(contract core.Address, function string, params []byte) (any, error) {
	e.mu.Lock()
	c, exists := e.contracts[contract]
	e.mu.Unlock()
	if !exists {
		return nil, core.ErrContractNotFound
	}

	handler, exists := c.Handlers[function]
	if !exists {
		handler, exists = c.Handlers[e.normalizeFunctionName(function)]
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrFunctionNotFound, function)
	}

	return e.invoke(contract, handler, params)
}

// normalizeFunctionName maps a snake_case function name to the exported Go
// name used as the handler key, e.g. "mint_warrior" -> "MintWarrior".
func (e *Engine) normalizeFunctionName(name string) string {
	parts := strings.Split(name, "_")
	for i, part := range parts {
		parts[i] = e.titler.String(part)
	}
	return strings.Join(parts, "")
}

// invoke runs a handler with all-or-nothing semantics. If the context
// supports snapshots, any handler error or panic restores the pre-call
// state before the error is returned; a successful call commits.
func (e *Engine) invoke(contract core.Address, handler HandlerFunc, params []byte) (result any, err error) {
	var snapshot any
	snapshotter, canRevert := e.ctx.(types.Snapshotter)
	if canRevert {
		snapshot = snapshotter.Snapshot()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", core.ErrExecutionReverted, r)
		}
		if !canRevert {
			return
		}
		if err != nil {
			snapshotter.Restore(snapshot)
		} else {
			snapshotter.Commit(snapshot)
		}
	}()

	ctx := NewExecutionContext(e.ctx, contract, e.ctx.Sender())
	return handler(ctx, params)
}
