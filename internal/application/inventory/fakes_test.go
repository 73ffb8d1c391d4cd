package inventory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tu-usuario/inventory-core/internal/domain"
	"github.com/tu-usuario/inventory-core/internal/domain/entity"
	"github.com/tu-usuario/inventory-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional real: el runner trabaja sobre un
// snapshot del estado y solo lo publica en el commit. Un error dentro del
// callback descarta el snapshot completo (rollback), igual que la implementación
// PostgreSQL con Begin/Commit/Rollback.
// ──────────────────────────────────────────────────────────────────────────────

func pairKey(variantID, locationID string) string {
	return variantID + "|" + locationID
}

type memState struct {
	records   map[string]*entity.StockRecord
	entries   []*entity.LedgerEntry
	transfers map[string]*entity.TransferRecord
}

func newMemState() *memState {
	return &memState{
		records:   make(map[string]*entity.StockRecord),
		transfers: make(map[string]*entity.TransferRecord),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, r := range s.records {
		cp := *r
		c.records[k] = &cp
	}
	c.entries = make([]*entity.LedgerEntry, len(s.entries))
	for i, e := range s.entries {
		cp := *e
		c.entries[i] = &cp
	}
	for k, t := range s.transfers {
		cp := *t
		c.transfers[k] = &cp
	}
	return c
}

// memDB estado compartido más puntos de fallo inyectables.
type memDB struct {
	mu    sync.Mutex
	state *memState

	// failUpsertAt hace fallar el Upsert del stock en esas parejas, para simular
	// el fallo de un paso dentro de su unidad de trabajo.
	failUpsertAt map[string]bool
}

func newMemDB() *memDB {
	return &memDB{state: newMemState(), failUpsertAt: make(map[string]bool)}
}

func (db *memDB) failUpsert(variantID, locationID string) {
	db.failUpsertAt[pairKey(variantID, locationID)] = true
}

// entriesByType asientos del estado confirmado con ese tipo.
func (db *memDB) entriesByType(entryType string) []*entity.LedgerEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, e := range db.state.entries {
		if e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}

// record devuelve el registro confirmado (o uno en cero).
func (db *memDB) record(variantID, locationID string) *entity.StockRecord {
	db.mu.Lock()
	defer db.mu.Unlock()
	if r, ok := db.state.records[pairKey(variantID, locationID)]; ok {
		cp := *r
		return &cp
	}
	return entity.NewStockRecord(variantID, locationID)
}

// deltaSum suma de deltas del libro para una pareja.
func (db *memDB) deltaSum(variantID, locationID string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	var sum int64
	for _, e := range db.state.entries {
		if e.VariantID == variantID && e.LocationID == locationID {
			sum += e.Delta
		}
	}
	return sum
}

func (db *memDB) entryCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.state.entries)
}

func (db *memDB) transferCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.state.transfers)
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct {
	db *memDB
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	ledgerRepo repository.LedgerRepository,
	transferRepo repository.TransferRepository,
) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	snapshot := r.db.state.clone()
	stockRepo := &memStockRepo{db: r.db, state: snapshot}
	ledgerRepo := &memLedgerRepo{db: r.db, state: snapshot}
	transferRepo := &memTransferRepo{db: r.db, state: snapshot}

	if err := fn(stockRepo, ledgerRepo, transferRepo); err != nil {
		return err // rollback: el snapshot se descarta
	}
	r.db.state = snapshot // commit
	return nil
}

// ── Repos ─────────────────────────────────────────────────────────────────────
// Con state != nil operan sobre el snapshot de una tx (el runner ya sostiene el
// lock); con state == nil emulan repos atados al pool y toman el lock por llamada.

type memStockRepo struct {
	db    *memDB
	state *memState
}

func (r *memStockRepo) withState(fn func(s *memState) error) error {
	if r.state != nil {
		return fn(r.state)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return fn(r.db.state)
}

func (r *memStockRepo) Get(variantID, locationID string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	err := r.withState(func(s *memState) error {
		if rec, ok := s.records[pairKey(variantID, locationID)]; ok {
			cp := *rec
			out = &cp
			return nil
		}
		out = entity.NewStockRecord(variantID, locationID)
		return nil
	})
	return out, err
}

func (r *memStockRepo) GetForUpdate(variantID, locationID string) (*entity.StockRecord, error) {
	return r.Get(variantID, locationID)
}

func (r *memStockRepo) Upsert(record *entity.StockRecord) error {
	if r.db != nil && r.db.failUpsertAt[pairKey(record.VariantID, record.LocationID)] {
		return fmt.Errorf("upsert stock record: fallo inyectado")
	}
	return r.withState(func(s *memState) error {
		cp := *record
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now()
		}
		s.records[pairKey(cp.VariantID, cp.LocationID)] = &cp
		return nil
	})
}

func (r *memStockRepo) ListBelowThreshold(locationID string, limit, offset int) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	err := r.withState(func(s *memState) error {
		for _, rec := range s.records {
			if rec.ReorderThreshold <= 0 || rec.Quantity > rec.ReorderThreshold {
				continue
			}
			if locationID != "" && rec.LocationID != locationID {
				continue
			}
			cp := *rec
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

type memLedgerRepo struct {
	db    *memDB
	state *memState
}

func (r *memLedgerRepo) withState(fn func(s *memState) error) error {
	if r.state != nil {
		return fn(r.state)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return fn(r.db.state)
}

func (r *memLedgerRepo) Append(entry *entity.LedgerEntry) error {
	return r.withState(func(s *memState) error {
		cp := *entry
		s.entries = append(s.entries, &cp)
		return nil
	})
}

func (r *memLedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	var out *entity.LedgerEntry
	err := r.withState(func(s *memState) error {
		for _, e := range s.entries {
			if e.ID == id {
				cp := *e
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *memLedgerRepo) ListByPair(variantID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.withState(func(s *memState) error {
		for i := len(s.entries) - 1; i >= 0; i-- {
			e := s.entries[i]
			if e.VariantID == variantID && e.LocationID == locationID {
				cp := *e
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *memLedgerRepo) ListByTransfer(transferID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.withState(func(s *memState) error {
		for _, e := range s.entries {
			if e.RelatedTransferID != nil && *e.RelatedTransferID == transferID {
				cp := *e
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

type memTransferRepo struct {
	db    *memDB
	state *memState
}

func (r *memTransferRepo) withState(fn func(s *memState) error) error {
	if r.state != nil {
		return fn(r.state)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return fn(r.db.state)
}

func (r *memTransferRepo) Create(transfer *entity.TransferRecord) error {
	return r.withState(func(s *memState) error {
		if _, exists := s.transfers[transfer.ID]; exists {
			return domain.ErrConflict
		}
		cp := *transfer
		s.transfers[transfer.ID] = &cp
		return nil
	})
}

func (r *memTransferRepo) GetByID(id string) (*entity.TransferRecord, error) {
	var out *entity.TransferRecord
	err := r.withState(func(s *memState) error {
		if t, ok := s.transfers[id]; ok {
			cp := *t
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *memTransferRepo) GetByIDForUpdate(id string) (*entity.TransferRecord, error) {
	return r.GetByID(id)
}

func (r *memTransferRepo) UpdateStatus(transfer *entity.TransferRecord) error {
	return r.withState(func(s *memState) error {
		if _, ok := s.transfers[transfer.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *transfer
		s.transfers[transfer.ID] = &cp
		return nil
	})
}

func (r *memTransferRepo) ListByLocation(locationID string, limit, offset int) ([]*entity.TransferRecord, error) {
	var out []*entity.TransferRecord
	err := r.withState(func(s *memState) error {
		for _, t := range s.transfers {
			if t.SourceLocationID == locationID || t.DestLocationID == locationID {
				cp := *t
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	db          *memDB
	adjustments *AdjustmentService
	receiving   *ReceivingUseCase
	transfers   *TransferUseCase
	queries     *StockQueryUseCase
	lowStock    *LowStockUseCase
}

func newFixture() *fixture {
	db := newMemDB()
	txRunner := &memTxRunner{db: db}
	adjustments := NewAdjustmentService(txRunner)
	poolStocks := &memStockRepo{db: db}
	poolLedger := &memLedgerRepo{db: db}
	poolTransfers := &memTransferRepo{db: db}
	return &fixture{
		db:          db,
		adjustments: adjustments,
		receiving:   NewReceivingUseCase(txRunner, adjustments),
		transfers:   NewTransferUseCase(txRunner, adjustments, poolTransfers, poolStocks),
		queries:     NewStockQueryUseCase(poolStocks, poolLedger),
		lowStock:    NewLowStockUseCase(poolStocks),
	}
}

// seedStock deja la pareja con la cantidad indicada vía ajuste manual.
func (f *fixture) seedStock(t *testing.T, variantID, locationID string, qty int64) {
	t.Helper()
	_, err := f.adjustments.Credit(context.Background(), variantID, locationID, qty,
		"seed-actor", entity.EntryTypeAdjustmentAdd, "carga inicial", Meta{})
	if err != nil {
		t.Fatalf("seed stock %s@%s: %v", variantID, locationID, err)
	}
}
