// Package db provides a sqlite-backed BlockchainContext using GORM. It
// persists blocks, transactions, objects, balances and contract events, so a
// CLI session can be resumed against the same database file.
package db

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrathod05/SuiWarriors/context"
	"github.com/mrathod05/SuiWarriors/core"
	"github.com/mrathod05/SuiWarriors/types"
)

const defaultDBPath = "./warriors.db"

type DBBlock struct {
	gorm.Model
	Height uint64 `gorm:"column:height;not null;unique;index"`
	Time   int64  `gorm:"column:block_time;not null"`
	Hash   string `gorm:"column:block_hash;not null;unique;index;size:66"`
}

func (DBBlock) TableName() string {
	return "blocks"
}

type DBTransaction struct {
	gorm.Model
	Hash        string `gorm:"column:tx_hash;not null;unique;index;size:66"`
	BlockHeight uint64 `gorm:"column:block_height;not null;index"`
	FromAddress string `gorm:"column:from_address;not null;index;size:42"`
	ToAddress   string `gorm:"column:to_address;not null;index;size:42"`
	Value       uint64 `gorm:"column:value;not null"`
}

func (DBTransaction) TableName() string {
	return "transactions"
}

// DBObject is a state object row. Fields live in object_fields.
type DBObject struct {
	gorm.Model
	ObjectID string `gorm:"column:object_id;not null;unique;index;size:66"`
	Owner    string `gorm:"column:owner_address;not null;index;size:42"`
	Contract string `gorm:"column:contract_address;not null;index;size:42"`
}

func (DBObject) TableName() string {
	return "objects"
}

// DBObjectField is a single field of a state object.
type DBObjectField struct {
	gorm.Model
	ObjectID string `gorm:"column:object_id;not null;index;size:66"`
	Key      string `gorm:"column:field_key;not null;index;size:255"`
	Value    []byte `gorm:"column:field_value;type:blob;not null"`
}

func (DBObjectField) TableName() string {
	return "object_fields"
}

type DBBalance struct {
	Address string `gorm:"column:address;primaryKey;size:42"`
	Amount  uint64 `gorm:"column:balance;not null;default:0"`
}

func (DBBalance) TableName() string {
	return "balances"
}

// DBEvent is a persisted contract event. KeyValues holds the JSON-encoded
// key-value pairs passed to Log.
type DBEvent struct {
	gorm.Model
	BlockHeight uint64 `gorm:"column:block_height;not null;index"`
	TxHash      string `gorm:"column:tx_hash;not null;index;size:66"`
	Contract    string `gorm:"column:contract_address;not null;index;size:42"`
	EventName   string `gorm:"column:event_name;not null;index;size:255"`
	KeyValues   []byte `gorm:"column:key_values;type:blob;not null"`
}

func (DBEvent) TableName() string {
	return "events"
}

// Context implements types.BlockchainContext on top of sqlite.
type Context struct {
	db *gorm.DB

	// Runtime state
	sender       core.Address
	contractAddr core.Address
	txHash       core.Hash
	blockHeight  uint64
	blockTime    int64
	nonce        uint64
}

func init() {
	context.Register(context.DBContextType, NewContext)
}

// NewContext opens (or creates) the sqlite database and migrates the schema.
// Recognized params: "db_path".
func NewContext(params map[string]any) types.BlockchainContext {
	dbPath := defaultDBPath
	if path, ok := params["db_path"].(string); ok && path != "" {
		dbPath = path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		panic(fmt.Errorf("failed to create db directory: %v", err))
	}

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		panic(fmt.Errorf("failed to open database: %v", err))
	}

	ctx := &Context{db: gdb}
	ctx.initDB()
	return ctx
}

func (c *Context) initDB() {
	err := c.db.AutoMigrate(
		&DBBlock{},
		&DBTransaction{},
		&DBObject{},
		&DBObjectField{},
		&DBBalance{},
		&DBEvent{},
	)
	if err != nil {
		panic(fmt.Errorf("failed to migrate database: %v", err))
	}
}

// SetBlockInfo records the block and scopes subsequent calls to it.
func (c *Context) SetBlockInfo(height uint64, time int64, hash core.Hash) error {
	block := DBBlock{Height: height, Time: time, Hash: hash.String()}
	result := c.db.Where("height = ?", height).FirstOrCreate(&block)
	if result.Error != nil {
		return fmt.Errorf("failed to record block: %v", result.Error)
	}
	c.blockHeight = height
	c.blockTime = time
	c.nonce = 0
	return nil
}

// SetTransactionInfo records the transaction and scopes subsequent calls to it.
func (c *Context) SetTransactionInfo(hash core.Hash, from core.Address, to core.Address, value uint64) error {
	tx := DBTransaction{
		Hash:        hash.String(),
		BlockHeight: c.blockHeight,
		FromAddress: from.String(),
		ToAddress:   to.String(),
		Value:       value,
	}
	result := c.db.Where("tx_hash = ?", hash.String()).FirstOrCreate(&tx)
	if result.Error != nil {
		return fmt.Errorf("failed to record transaction: %v", result.Error)
	}
	c.txHash = hash
	c.sender = from
	c.contractAddr = to
	c.nonce = 0
	return nil
}

// BlockHeight implements types.BlockchainContext
func (c *Context) BlockHeight() uint64 {
	if c.blockHeight != 0 {
		return c.blockHeight
	}
	var height uint64
	c.db.Model(&DBBlock{}).Select("COALESCE(MAX(height), 0)").Scan(&height)
	return height
}

// BlockTime implements types.BlockchainContext
func (c *Context) BlockTime() int64 {
	return c.blockTime
}

// ContractAddress implements types.BlockchainContext
func (c *Context) ContractAddress() core.Address {
	return c.contractAddr
}

// TransactionHash implements types.BlockchainContext
func (c *Context) TransactionHash() core.Hash {
	return c.txHash
}

// Sender implements types.BlockchainContext
func (c *Context) Sender() core.Address {
	return c.sender
}

// Balance implements types.BlockchainContext
func (c *Context) Balance(addr core.Address) uint64 {
	var balance DBBalance
	result := c.db.Where("address = ?", addr.String()).First(&balance)
	if result.Error == gorm.ErrRecordNotFound {
		return 0
	}
	if result.Error != nil {
		panic(fmt.Errorf("failed to get balance: %v", result.Error))
	}
	return balance.Amount
}

// SetBalance sets an account balance directly. Used by genesis loading only.
func (c *Context) SetBalance(addr core.Address, amount uint64) error {
	balance := DBBalance{Address: addr.String(), Amount: amount}
	return c.db.Save(&balance).Error
}

// Transfer implements types.BlockchainContext
func (c *Context) Transfer(contract, from, to core.Address, amount uint64) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var fromBalance DBBalance
		result := tx.Where("address = ?", from.String()).First(&fromBalance)
		if result.Error == gorm.ErrRecordNotFound {
			return fmt.Errorf("insufficient balance")
		} else if result.Error != nil {
			return fmt.Errorf("failed to get sender balance: %v", result.Error)
		}

		if fromBalance.Amount < amount {
			return fmt.Errorf("insufficient balance")
		}

		if err := tx.Model(&DBBalance{}).Where("address = ?", from.String()).
			Update("balance", fromBalance.Amount-amount).Error; err != nil {
			return fmt.Errorf("failed to update sender balance: %v", err)
		}

		var toBalance DBBalance
		result = tx.Where("address = ?", to.String()).First(&toBalance)
		if result.Error == gorm.ErrRecordNotFound {
			toBalance = DBBalance{
				Address: to.String(),
				Amount:  amount,
			}
			if err := tx.Create(&toBalance).Error; err != nil {
				return fmt.Errorf("failed to create recipient balance: %v", err)
			}
		} else if result.Error != nil {
			return fmt.Errorf("failed to get recipient balance: %v", result.Error)
		} else {
			if err := tx.Model(&DBBalance{}).Where("address = ?", to.String()).
				Update("balance", toBalance.Amount+amount).Error; err != nil {
				return fmt.Errorf("failed to update recipient balance: %v", err)
			}
		}

		return nil
	})
}

// CreateObject implements types.BlockchainContext
func (c *Context) CreateObject(contract core.Address) (types.VMObject, error) {
	c.nonce++
	str := fmt.Sprintf("%s:%s:%d", c.txHash.String(), c.sender.String(), c.nonce)
	hash := core.GetHash([]byte(str))
	return c.CreateObjectWithID(contract, core.ObjectID(hash))
}

// CreateObjectWithID implements types.BlockchainContext. The new object is
// owned by the current transaction sender. Creating an object at an occupied
// ID is an error.
func (c *Context) CreateObjectWithID(contract core.Address, id core.ObjectID) (types.VMObject, error) {
	var count int64
	c.db.Model(&DBObject{}).Where("object_id = ?", id.String()).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("object %s already exists", id)
	}

	obj := &Object{
		ctx:      c,
		id:       id,
		owner:    c.sender,
		contract: contract,
	}

	dbObj := &DBObject{
		Owner:    obj.owner.String(),
		Contract: contract.String(),
		ObjectID: id.String(),
	}

	if err := c.db.Create(dbObj).Error; err != nil {
		return nil, fmt.Errorf("failed to create object: %v", err)
	}

	return obj, nil
}

// GetObject implements types.BlockchainContext
func (c *Context) GetObject(contract core.Address, id core.ObjectID) (types.VMObject, error) {
	var dbObj DBObject
	result := c.db.Where("object_id = ? AND contract_address = ?", id.String(), contract.String()).First(&dbObj)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, core.ErrObjectNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get object: %v", result.Error)
	}

	return &Object{
		ctx:      c,
		id:       id,
		owner:    core.AddressFromString(dbObj.Owner),
		contract: contract,
	}, nil
}

// GetObjectWithOwner implements types.BlockchainContext
func (c *Context) GetObjectWithOwner(contract, owner core.Address) (types.VMObject, error) {
	var dbObj DBObject
	result := c.db.Where("owner_address = ? AND contract_address = ?", owner.String(), contract.String()).First(&dbObj)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, core.ErrObjectNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get object: %v", result.Error)
	}

	return &Object{
		ctx:      c,
		id:       core.IDFromString(dbObj.ObjectID),
		owner:    owner,
		contract: contract,
	}, nil
}

// DeleteObject implements types.BlockchainContext
func (c *Context) DeleteObject(contract core.Address, id core.ObjectID) error {
	result := c.db.Where("object_id = ? AND contract_address = ?", id.String(), contract.String()).Delete(&DBObject{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete object: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return core.ErrObjectNotFound
	}
	c.db.Where("object_id = ?", id.String()).Delete(&DBObjectField{})
	return nil
}

// Log implements types.BlockchainContext
func (c *Context) Log(contract core.Address, eventName string, keyValues ...any) {
	data, err := json.Marshal(keyValues)
	if err != nil {
		slog.Error("Failed to marshal event data", "error", err)
		return
	}

	event := &DBEvent{
		BlockHeight: c.blockHeight,
		TxHash:      c.txHash.String(),
		Contract:    contract.String(),
		EventName:   eventName,
		KeyValues:   data,
	}

	if err := c.db.Create(event).Error; err != nil {
		slog.Error("Failed to save event", "error", err)
		return
	}

	params := []any{
		"block", c.blockHeight,
		"tx", c.txHash,
		"contract", contract,
		"event", eventName,
	}
	params = append(params, keyValues...)
	slog.Info("Contract event", params...)
}

// Events returns the persisted events for a contract, oldest first.
func (c *Context) Events(contract core.Address) ([]DBEvent, error) {
	var events []DBEvent
	result := c.db.Where("contract_address = ?", contract.String()).
		Order("id ASC").Find(&events)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query events: %v", result.Error)
	}
	return events, nil
}

// dbSnapshot is an open transaction restore point. parent is the handle to
// fall back to once the transaction ends.
type dbSnapshot struct {
	parent *gorm.DB
}

// Snapshot implements types.Snapshotter by opening a transaction and routing
// all subsequent state access through it. Restore rolls it back, Commit makes
// it durable; either way the context returns to the parent handle.
func (c *Context) Snapshot() any {
	tx := c.db.Begin()
	if tx.Error != nil {
		slog.Error("Failed to begin transaction", "error", tx.Error)
		return nil
	}
	snap := &dbSnapshot{parent: c.db}
	c.db = tx
	return snap
}

// Restore implements types.Snapshotter.
func (c *Context) Restore(snapshot any) {
	snap, ok := snapshot.(*dbSnapshot)
	if !ok {
		return
	}
	c.db.Rollback()
	c.db = snap.parent
}

// Commit implements types.Snapshotter.
func (c *Context) Commit(snapshot any) {
	snap, ok := snapshot.(*dbSnapshot)
	if !ok {
		return
	}
	if err := c.db.Commit().Error; err != nil {
		slog.Error("Failed to commit transaction", "error", err)
	}
	c.db = snap.parent
}

// Object implements the types.VMObject interface
type Object struct {
	ctx      *Context
	id       core.ObjectID
	owner    core.Address
	contract core.Address
}

func (o *Object) ID() core.ObjectID {
	return o.id
}

func (o *Object) Owner() core.Address {
	return o.owner
}

func (o *Object) Contract() core.Address {
	return o.contract
}

func (o *Object) SetOwner(contract, sender, addr core.Address) error {
	if contract != o.contract {
		return fmt.Errorf("invalid contract")
	}
	if sender != o.owner && contract != o.owner {
		return fmt.Errorf("not owner")
	}

	result := o.ctx.db.Model(&DBObject{}).
		Where("object_id = ? AND contract_address = ?", o.id.String(), o.contract.String()).
		Update("owner_address", addr.String())
	if result.Error != nil {
		return fmt.Errorf("failed to update owner: %v", result.Error)
	}

	o.owner = addr
	return nil
}

func (o *Object) Get(contract core.Address, field string) ([]byte, error) {
	if contract != o.contract {
		return nil, fmt.Errorf("invalid contract")
	}

	var dbField DBObjectField
	result := o.ctx.db.Where("object_id = ? AND field_key = ?", o.id.String(), field).First(&dbField)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, core.ErrFieldNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get field: %v", result.Error)
	}

	return dbField.Value, nil
}

func (o *Object) Set(contract, sender core.Address, field string, value []byte) error {
	if contract != o.contract {
		return fmt.Errorf("invalid contract")
	}
	if sender != o.owner && contract != o.owner {
		return fmt.Errorf("not owner")
	}

	result := o.ctx.db.Where("object_id = ? AND field_key = ?", o.id.String(), field).
		Assign(DBObjectField{Value: value}).
		FirstOrCreate(&DBObjectField{
			ObjectID: o.id.String(),
			Key:      field,
			Value:    value,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update field: %v", result.Error)
	}
	return nil
}
