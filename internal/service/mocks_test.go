// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/MKhiriev/go-doc-ledger/internal/store"
	"github.com/MKhiriev/go-doc-ledger/models"
)

// ─────────────────────────────────────────────
// Mock: store.LedgerRepository
// ─────────────────────────────────────────────

type mockLedgerRepository struct {
	saveHashRecordFn             func(ctx context.Context, record *models.HashRecord) error
	latestHashRecordByDocumentFn func(ctx context.Context, documentID string) (*models.HashRecord, error)
	hashRecordsByDocumentFn      func(ctx context.Context, documentID string, userID string, limit uint64) ([]models.HashRecord, error)
	saveChainBlockFn             func(ctx context.Context, block *models.ChainBlock) error
	latestChainBlockFn           func(ctx context.Context) (*models.ChainBlock, error)
	latestChainBlocksFn          func(ctx context.Context, limit int) ([]models.ChainBlock, error)
	chainBlocksAscendingFn       func(ctx context.Context) ([]models.ChainBlock, error)
}

func (m *mockLedgerRepository) SaveHashRecord(ctx context.Context, record *models.HashRecord) error {
	if m.saveHashRecordFn != nil {
		return m.saveHashRecordFn(ctx, record)
	}
	return nil
}

func (m *mockLedgerRepository) LatestHashRecordByDocument(ctx context.Context, documentID string) (*models.HashRecord, error) {
	if m.latestHashRecordByDocumentFn != nil {
		return m.latestHashRecordByDocumentFn(ctx, documentID)
	}
	return nil, store.ErrHashRecordNotFound
}

func (m *mockLedgerRepository) HashRecordsByDocument(ctx context.Context, documentID string, userID string, limit uint64) ([]models.HashRecord, error) {
	if m.hashRecordsByDocumentFn != nil {
		return m.hashRecordsByDocumentFn(ctx, documentID, userID, limit)
	}
	return nil, nil
}

func (m *mockLedgerRepository) SaveChainBlock(ctx context.Context, block *models.ChainBlock) error {
	if m.saveChainBlockFn != nil {
		return m.saveChainBlockFn(ctx, block)
	}
	return nil
}

func (m *mockLedgerRepository) LatestChainBlock(ctx context.Context) (*models.ChainBlock, error) {
	if m.latestChainBlockFn != nil {
		return m.latestChainBlockFn(ctx)
	}
	return nil, store.ErrChainEmpty
}

func (m *mockLedgerRepository) LatestChainBlocks(ctx context.Context, limit int) ([]models.ChainBlock, error) {
	if m.latestChainBlocksFn != nil {
		return m.latestChainBlocksFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockLedgerRepository) ChainBlocksAscending(ctx context.Context) ([]models.ChainBlock, error) {
	if m.chainBlocksAscendingFn != nil {
		return m.chainBlocksAscendingFn(ctx)
	}
	return nil, nil
}

// memoryLedger is an in-memory LedgerRepository for tests that exercise a
// whole flow (record + chain) rather than a single call.
type memoryLedger struct {
	mu      sync.Mutex
	records []models.HashRecord
	blocks  []models.ChainBlock

	hashRecordReads int
}

func (m *memoryLedger) SaveHashRecord(_ context.Context, record *models.HashRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryLedger) LatestHashRecordByDocument(_ context.Context, documentID string) (*models.HashRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashRecordReads++
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].DocumentID == documentID {
			record := m.records[i]
			return &record, nil
		}
	}
	return nil, store.ErrHashRecordNotFound
}

func (m *memoryLedger) HashRecordsByDocument(_ context.Context, documentID string, userID string, limit uint64) ([]models.HashRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HashRecord
	for _, record := range m.records {
		if record.DocumentID != documentID {
			continue
		}
		if userID != "" && record.UserID != userID {
			continue
		}
		out = append(out, record)
		if limit > 0 && uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryLedger) SaveChainBlock(_ context.Context, block *models.ChainBlock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blocks = append(m.blocks, *block)
	return nil
}

func (m *memoryLedger) LatestChainBlock(_ context.Context) (*models.ChainBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.blocks) == 0 {
		return nil, store.ErrChainEmpty
	}
	block := m.blocks[len(m.blocks)-1]
	return &block, nil
}

func (m *memoryLedger) LatestChainBlocks(_ context.Context, limit int) ([]models.ChainBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChainBlock, len(m.blocks))
	copy(out, m.blocks)
	sort.Slice(out, func(i, j int) bool { return out[i].BlockNumber > out[j].BlockNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryLedger) ChainBlocksAscending(_ context.Context) ([]models.ChainBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChainBlock, len(m.blocks))
	copy(out, m.blocks)
	sort.Slice(out, func(i, j int) bool { return out[i].BlockNumber < out[j].BlockNumber })
	return out, nil
}

// ─────────────────────────────────────────────
// Mock: store.BlobStorage
// ─────────────────────────────────────────────

type storedBlob struct {
	data  []byte
	attrs models.BlobAttributes
}

type mockBlobStorage struct {
	putFn       func(ctx context.Context, name string, data []byte, attrs models.BlobAttributes) error
	getFn       func(ctx context.Context, name string) ([]byte, models.BlobAttributes, error)
	reconnectFn func(ctx context.Context) error

	mu         sync.Mutex
	blobs      map[string]storedBlob
	putCalls   int
	reconnects int
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{blobs: make(map[string]storedBlob)}
}

func (m *mockBlobStorage) Put(ctx context.Context, name string, data []byte, attrs models.BlobAttributes) error {
	m.mu.Lock()
	m.putCalls++
	m.mu.Unlock()

	if m.putFn != nil {
		return m.putFn(ctx, name, data, attrs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = storedBlob{data: data, attrs: attrs}
	return nil
}

func (m *mockBlobStorage) Get(ctx context.Context, name string) ([]byte, models.BlobAttributes, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[name]
	if !ok {
		return nil, models.BlobAttributes{}, store.ErrBlobNotFound
	}
	return blob.data, blob.attrs, nil
}

func (m *mockBlobStorage) Exists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[name]
	return ok, nil
}

func (m *mockBlobStorage) Reconnect(ctx context.Context) error {
	m.mu.Lock()
	m.reconnects++
	m.mu.Unlock()

	if m.reconnectFn != nil {
		return m.reconnectFn(ctx)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: keys.KeyService
// ─────────────────────────────────────────────

// mockKeyService is a deterministic fake provider: wrapping XORs with a fixed
// pad so that unwrap genuinely reverses wrap, and signatures are digests of
// the digest. Good enough to prove plumbing without real RSA.
type mockKeyService struct {
	wrapKeyFn   func(ctx context.Context, keyRef string, plaintext []byte) ([]byte, error)
	unwrapKeyFn func(ctx context.Context, keyRef string, ciphertext []byte) ([]byte, error)
	signFn      func(ctx context.Context, keyVersion string, digest []byte) ([]byte, error)
	verifyFn    func(ctx context.Context, keyVersion string, digest, signature []byte) (bool, error)

	mu        sync.Mutex
	signCalls int
}

const mockWrapPad = 0x5a

func (m *mockKeyService) WrapKey(ctx context.Context, keyRef string, plaintext []byte) ([]byte, error) {
	if m.wrapKeyFn != nil {
		return m.wrapKeyFn(ctx, keyRef, plaintext)
	}
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ mockWrapPad
	}
	return out, nil
}

func (m *mockKeyService) UnwrapKey(ctx context.Context, keyRef string, ciphertext []byte) ([]byte, error) {
	if m.unwrapKeyFn != nil {
		return m.unwrapKeyFn(ctx, keyRef, ciphertext)
	}
	out := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		out[i] = b ^ mockWrapPad
	}
	return out, nil
}

func (m *mockKeyService) Sign(ctx context.Context, keyVersion string, digest []byte) ([]byte, error) {
	m.mu.Lock()
	m.signCalls++
	m.mu.Unlock()

	if m.signFn != nil {
		return m.signFn(ctx, keyVersion, digest)
	}
	sum := sha256.Sum256(append([]byte(keyVersion+":"), digest...))
	return []byte(hex.EncodeToString(sum[:])), nil
}

func (m *mockKeyService) Verify(ctx context.Context, keyVersion string, digest, signature []byte) (bool, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, keyVersion, digest, signature)
	}
	want, _ := m.Sign(ctx, keyVersion, digest)
	return string(want) == string(signature), nil
}
