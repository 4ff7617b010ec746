// Package workbook defines the persistence boundary a sheetengine host
// loads a workbook through: a sheet/address-keyed map of cell specs, and
// the Loader/Exporter interfaces that move them to and from storage. The
// engine package never talks to storage directly; a host wires one of
// these implementations to an engine.Engine at startup.
package workbook

import (
	"strconv"

	"sheetengine/address"
)

// CellSpec is a cell's durable representation: either a literal value's
// source text or a formula's source text, never the evaluated result
// (value-store entries are transient, spec.md §3).
type CellSpec struct {
	IsFormula bool
	Source    string
}

// Snapshot is a whole workbook's durable cell specs, keyed by sheet then
// by cell address text (address.Address.Key() without the sheet prefix
// would collide across sheets sharing a map, so the outer key is sheet
// name and the inner key is "COLROW").
type Snapshot map[string]map[string]CellSpec

// Set records spec at addr, creating the sheet bucket if needed.
func (s Snapshot) Set(addr address.Address, spec CellSpec) {
	sheet, ok := s[addr.Sheet]
	if !ok {
		sheet = make(map[string]CellSpec)
		s[addr.Sheet] = sheet
	}
	sheet[cellKey(addr)] = spec
}

func cellKey(addr address.Address) string {
	return address.ColumnLetters(addr.Col) + strconv.Itoa(addr.Row)
}

// Loader reads a workbook snapshot from storage.
type Loader interface {
	Load() (Snapshot, error)
}

// Exporter writes a workbook snapshot to storage.
type Exporter interface {
	Save(Snapshot) error
}

// MemoryStore is an in-process Loader/Exporter, useful for tests and for
// hosts that only need process-lifetime persistence.
type MemoryStore struct {
	snapshot Snapshot
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshot: make(Snapshot)}
}

func (m *MemoryStore) Load() (Snapshot, error) {
	return m.snapshot, nil
}

func (m *MemoryStore) Save(s Snapshot) error {
	m.snapshot = s
	return nil
}
