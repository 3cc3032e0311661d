package vm

import (
	"encoding/json"
	"fmt"

	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/types"
)

// ExecutionContext implements core.Context for a single contract call. It
// binds the contract address and sender once, so the contract code never
// sees the host-side interface.
type ExecutionContext struct {
	ctx      types.BlockchainContext
	contract core.Address
	sender   core.Address
}

// NewExecutionContext binds a blockchain context to a contract and sender.
// Exposed so contract tests can call contract functions directly without
// going through an engine.
func NewExecutionContext(ctx types.BlockchainContext, contract, sender core.Address) *ExecutionContext {
	return &ExecutionContext{
		ctx:      ctx,
		contract: contract,
		sender:   sender,
	}
}

func (c *ExecutionContext) BlockHeight() uint64 {
	return c.ctx.BlockHeight()
}

func (c *ExecutionContext) BlockTime() int64 {
	return c.ctx.BlockTime()
}

func (c *ExecutionContext) ContractAddress() core.Address {
	return c.contract
}

func (c *ExecutionContext) Sender() core.Address {
	return c.sender
}

func (c *ExecutionContext) Balance(addr core.Address) uint64 {
	return c.ctx.Balance(addr)
}

// Transfer sends funds from the contract account.
func (c *ExecutionContext) Transfer(to core.Address, amount uint64) error {
	return c.ctx.Transfer(c.contract, c.contract, to, amount)
}

// CreateObject creates a new object owned by the sender. Panics on failure;
// the engine converts the panic into a reverted call.
func (c *ExecutionContext) CreateObject() core.Object {
	obj, err := c.ctx.CreateObject(c.contract)
	if err != nil {
		panic(fmt.Errorf("create object: %w", err))
	}
	return &contractObject{obj: obj, ec: c}
}

// CreateObjectWithID creates an object at a fixed, caller-chosen ID. Used
// for singleton objects that must be findable without an ID handoff. Panics
// if the ID is occupied.
func (c *ExecutionContext) CreateObjectWithID(id core.ObjectID) core.Object {
	obj, err := c.ctx.CreateObjectWithID(c.contract, id)
	if err != nil {
		panic(fmt.Errorf("create object: %w", err))
	}
	return &contractObject{obj: obj, ec: c}
}

func (c *ExecutionContext) GetObject(id core.ObjectID) (core.Object, error) {
	obj, err := c.ctx.GetObject(c.contract, id)
	if err != nil {
		return nil, err
	}
	return &contractObject{obj: obj, ec: c}, nil
}

func (c *ExecutionContext) GetObjectWithOwner(owner core.Address) (core.Object, error) {
	obj, err := c.ctx.GetObjectWithOwner(c.contract, owner)
	if err != nil {
		return nil, err
	}
	return &contractObject{obj: obj, ec: c}, nil
}

// DeleteObject removes an object. Panics on failure.
func (c *ExecutionContext) DeleteObject(id core.ObjectID) {
	if err := c.ctx.DeleteObject(c.contract, id); err != nil {
		panic(fmt.Errorf("delete object: %w", err))
	}
}

func (c *ExecutionContext) Log(eventName string, keyValues ...any) {
	c.ctx.Log(c.contract, eventName, keyValues...)
}

// contractObject adapts a host VMObject to the contract-facing core.Object.
// Field values are JSON at the host boundary.
type contractObject struct {
	obj types.VMObject
	ec  *ExecutionContext
}

func (o *contractObject) ID() core.ObjectID {
	return o.obj.ID()
}

func (o *contractObject) Owner() core.Address {
	return o.obj.Owner()
}

func (o *contractObject) Contract() core.Address {
	return o.obj.Contract()
}

// SetOwner transfers the object. Panics when the sender is not allowed to
// move it.
func (o *contractObject) SetOwner(addr core.Address) {
	if err := o.obj.SetOwner(o.ec.contract, o.ec.sender, addr); err != nil {
		panic(fmt.Errorf("set owner: %w", err))
	}
}

func (o *contractObject) Get(field string, value any) error {
	data, err := o.obj.Get(o.ec.contract, field)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, value)
}

func (o *contractObject) Set(field string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", field, err)
	}
	return o.obj.Set(o.ec.contract, o.ec.sender, field, data)
}
