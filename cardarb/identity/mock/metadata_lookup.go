package mock

import (
	context "context"
	reflect "reflect"

	identity "github.com/ellavondegurechaff/cardarb/cardarb/identity"
	gomock "go.uber.org/mock/gomock"
)

// MockMetadataLookup is a mock of MetadataLookup interface.
type MockMetadataLookup struct {
	ctrl     *gomock.Controller
	recorder *MockMetadataLookupMockRecorder
	isgomock struct{}
}

// MockMetadataLookupMockRecorder is the mock recorder for MockMetadataLookup.
type MockMetadataLookupMockRecorder struct {
	mock *MockMetadataLookup
}

// NewMockMetadataLookup creates a new mock instance.
func NewMockMetadataLookup(ctrl *gomock.Controller) *MockMetadataLookup {
	mock := &MockMetadataLookup{ctrl: ctrl}
	mock.recorder = &MockMetadataLookupMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMetadataLookup) EXPECT() *MockMetadataLookupMockRecorder {
	return m.recorder
}

// Lookup mocks base method.
func (m *MockMetadataLookup) Lookup(ctx context.Context, name, setHint string) (*identity.CardMetadata, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lookup", ctx, name, setHint)
	ret0, _ := ret[0].(*identity.CardMetadata)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Lookup indicates an expected call of Lookup.
func (mr *MockMetadataLookupMockRecorder) Lookup(ctx, name, setHint any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lookup", reflect.TypeOf((*MockMetadataLookup)(nil).Lookup), ctx, name, setHint)
}

// MockSetCatalog is a mock of SetCatalog interface.
type MockSetCatalog struct {
	ctrl     *gomock.Controller
	recorder *MockSetCatalogMockRecorder
	isgomock struct{}
}

// MockSetCatalogMockRecorder is the mock recorder for MockSetCatalog.
type MockSetCatalogMockRecorder struct {
	mock *MockSetCatalog
}

// NewMockSetCatalog creates a new mock instance.
func NewMockSetCatalog(ctrl *gomock.Controller) *MockSetCatalog {
	mock := &MockSetCatalog{ctrl: ctrl}
	mock.recorder = &MockSetCatalogMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSetCatalog) EXPECT() *MockSetCatalogMockRecorder {
	return m.recorder
}

// Printings mocks base method.
func (m *MockSetCatalog) Printings(ctx context.Context, setCode string) ([]identity.CatalogEntry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Printings", ctx, setCode)
	ret0, _ := ret[0].([]identity.CatalogEntry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Printings indicates an expected call of Printings.
func (mr *MockSetCatalogMockRecorder) Printings(ctx, setCode any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Printings", reflect.TypeOf((*MockSetCatalog)(nil).Printings), ctx, setCode)
}
