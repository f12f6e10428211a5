package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/ellavondegurechaff/cardarb/cardarb/database/models"
	repositories "github.com/ellavondegurechaff/cardarb/cardarb/database/repositories"
	gomock "go.uber.org/mock/gomock"
)

// MockCardVariantRepository is a mock of CardVariantRepository interface.
type MockCardVariantRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCardVariantRepositoryMockRecorder
	isgomock struct{}
}

// MockCardVariantRepositoryMockRecorder is the mock recorder for MockCardVariantRepository.
type MockCardVariantRepositoryMockRecorder struct {
	mock *MockCardVariantRepository
}

// NewMockCardVariantRepository creates a new mock instance.
func NewMockCardVariantRepository(ctrl *gomock.Controller) *MockCardVariantRepository {
	mock := &MockCardVariantRepository{ctrl: ctrl}
	mock.recorder = &MockCardVariantRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCardVariantRepository) EXPECT() *MockCardVariantRepositoryMockRecorder {
	return m.recorder
}

// AttachUniversalID mocks base method.
func (m *MockCardVariantRepository) AttachUniversalID(ctx context.Context, variantID int64, universalID string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AttachUniversalID", ctx, variantID, universalID)
	ret0, _ := ret[0].(error)
	return ret0
}

// AttachUniversalID indicates an expected call of AttachUniversalID.
func (mr *MockCardVariantRepositoryMockRecorder) AttachUniversalID(ctx, variantID, universalID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AttachUniversalID", reflect.TypeOf((*MockCardVariantRepository)(nil).AttachUniversalID), ctx, variantID, universalID)
}

// BulkCreate mocks base method.
func (m *MockCardVariantRepository) BulkCreate(ctx context.Context, variants []*models.CardVariant) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BulkCreate", ctx, variants)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// BulkCreate indicates an expected call of BulkCreate.
func (mr *MockCardVariantRepositoryMockRecorder) BulkCreate(ctx, variants any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BulkCreate", reflect.TypeOf((*MockCardVariantRepository)(nil).BulkCreate), ctx, variants)
}

// Create mocks base method.
func (m *MockCardVariantRepository) Create(ctx context.Context, variant *models.CardVariant) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, variant)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockCardVariantRepositoryMockRecorder) Create(ctx, variant any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockCardVariantRepository)(nil).Create), ctx, variant)
}

// GetByID mocks base method.
func (m *MockCardVariantRepository) GetByID(ctx context.Context, id int64) (*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockCardVariantRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockCardVariantRepository)(nil).GetByID), ctx, id)
}

// GetByName mocks base method.
func (m *MockCardVariantRepository) GetByName(ctx context.Context, name string) ([]*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByName", ctx, name)
	ret0, _ := ret[0].([]*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByName indicates an expected call of GetByName.
func (mr *MockCardVariantRepositoryMockRecorder) GetByName(ctx, name any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByName", reflect.TypeOf((*MockCardVariantRepository)(nil).GetByName), ctx, name)
}

// GetBySetCode mocks base method.
func (m *MockCardVariantRepository) GetBySetCode(ctx context.Context, setCode string) ([]*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBySetCode", ctx, setCode)
	ret0, _ := ret[0].([]*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBySetCode indicates an expected call of GetBySetCode.
func (mr *MockCardVariantRepositoryMockRecorder) GetBySetCode(ctx, setCode any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBySetCode", reflect.TypeOf((*MockCardVariantRepository)(nil).GetBySetCode), ctx, setCode)
}

// GetByTuple mocks base method.
func (m *MockCardVariantRepository) GetByTuple(ctx context.Context, setCode, collectorNumber string, isFoil bool) (*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByTuple", ctx, setCode, collectorNumber, isFoil)
	ret0, _ := ret[0].(*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByTuple indicates an expected call of GetByTuple.
func (mr *MockCardVariantRepositoryMockRecorder) GetByTuple(ctx, setCode, collectorNumber, isFoil any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByTuple", reflect.TypeOf((*MockCardVariantRepository)(nil).GetByTuple), ctx, setCode, collectorNumber, isFoil)
}

// GetByUniversalID mocks base method.
func (m *MockCardVariantRepository) GetByUniversalID(ctx context.Context, universalID string, isFoil bool) (*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByUniversalID", ctx, universalID, isFoil)
	ret0, _ := ret[0].(*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByUniversalID indicates an expected call of GetByUniversalID.
func (mr *MockCardVariantRepositoryMockRecorder) GetByUniversalID(ctx, universalID, isFoil any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByUniversalID", reflect.TypeOf((*MockCardVariantRepository)(nil).GetByUniversalID), ctx, universalID, isFoil)
}

// ListTrackedBuylist mocks base method.
func (m *MockCardVariantRepository) ListTrackedBuylist(ctx context.Context) ([]*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListTrackedBuylist", ctx)
	ret0, _ := ret[0].([]*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListTrackedBuylist indicates an expected call of ListTrackedBuylist.
func (mr *MockCardVariantRepositoryMockRecorder) ListTrackedBuylist(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListTrackedBuylist", reflect.TypeOf((*MockCardVariantRepository)(nil).ListTrackedBuylist), ctx)
}

// ListTrackedRetail mocks base method.
func (m *MockCardVariantRepository) ListTrackedRetail(ctx context.Context) ([]*models.CardVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListTrackedRetail", ctx)
	ret0, _ := ret[0].([]*models.CardVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListTrackedRetail indicates an expected call of ListTrackedRetail.
func (mr *MockCardVariantRepositoryMockRecorder) ListTrackedRetail(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListTrackedRetail", reflect.TypeOf((*MockCardVariantRepository)(nil).ListTrackedRetail), ctx)
}

// RefreshMetadata mocks base method.
func (m *MockCardVariantRepository) RefreshMetadata(ctx context.Context, variantID int64, setCode, imageURL, buylistURL, retailURL string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RefreshMetadata", ctx, variantID, setCode, imageURL, buylistURL, retailURL)
	ret0, _ := ret[0].(error)
	return ret0
}

// RefreshMetadata indicates an expected call of RefreshMetadata.
func (mr *MockCardVariantRepositoryMockRecorder) RefreshMetadata(ctx, variantID, setCode, imageURL, buylistURL, retailURL any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RefreshMetadata", reflect.TypeOf((*MockCardVariantRepository)(nil).RefreshMetadata), ctx, variantID, setCode, imageURL, buylistURL, retailURL)
}

// MockPriceHistoryRepository is a mock of PriceHistoryRepository interface.
type MockPriceHistoryRepository struct {
	ctrl     *gomock.Controller
	recorder *MockPriceHistoryRepositoryMockRecorder
	isgomock struct{}
}

// MockPriceHistoryRepositoryMockRecorder is the mock recorder for MockPriceHistoryRepository.
type MockPriceHistoryRepositoryMockRecorder struct {
	mock *MockPriceHistoryRepository
}

// NewMockPriceHistoryRepository creates a new mock instance.
func NewMockPriceHistoryRepository(ctrl *gomock.Controller) *MockPriceHistoryRepository {
	mock := &MockPriceHistoryRepository{ctrl: ctrl}
	mock.recorder = &MockPriceHistoryRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPriceHistoryRepository) EXPECT() *MockPriceHistoryRepositoryMockRecorder {
	return m.recorder
}

// ExistingDayKeys mocks base method.
func (m *MockPriceHistoryRepository) ExistingDayKeys(ctx context.Context, source models.Source, day time.Time) (map[int64]struct{}, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExistingDayKeys", ctx, source, day)
	ret0, _ := ret[0].(map[int64]struct{})
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ExistingDayKeys indicates an expected call of ExistingDayKeys.
func (mr *MockPriceHistoryRepositoryMockRecorder) ExistingDayKeys(ctx, source, day any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExistingDayKeys", reflect.TypeOf((*MockPriceHistoryRepository)(nil).ExistingDayKeys), ctx, source, day)
}

// HistoryFor mocks base method.
func (m *MockPriceHistoryRepository) HistoryFor(ctx context.Context, cardVariantID int64, source models.Source, from, to time.Time) ([]*models.PriceObservation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HistoryFor", ctx, cardVariantID, source, from, to)
	ret0, _ := ret[0].([]*models.PriceObservation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HistoryFor indicates an expected call of HistoryFor.
func (mr *MockPriceHistoryRepositoryMockRecorder) HistoryFor(ctx, cardVariantID, source, from, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HistoryFor", reflect.TypeOf((*MockPriceHistoryRepository)(nil).HistoryFor), ctx, cardVariantID, source, from, to)
}

// LatestBySource mocks base method.
func (m *MockPriceHistoryRepository) LatestBySource(ctx context.Context, cardVariantIDs []int64, source models.Source) (map[int64]*models.PriceObservation, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LatestBySource", ctx, cardVariantIDs, source)
	ret0, _ := ret[0].(map[int64]*models.PriceObservation)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LatestBySource indicates an expected call of LatestBySource.
func (mr *MockPriceHistoryRepositoryMockRecorder) LatestBySource(ctx, cardVariantIDs, source any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LatestBySource", reflect.TypeOf((*MockPriceHistoryRepository)(nil).LatestBySource), ctx, cardVariantIDs, source)
}

// Record mocks base method.
func (m *MockPriceHistoryRepository) Record(ctx context.Context, obs *models.PriceObservation) (repositories.RecordResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, obs)
	ret0, _ := ret[0].(repositories.RecordResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Record indicates an expected call of Record.
func (mr *MockPriceHistoryRepositoryMockRecorder) Record(ctx, obs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockPriceHistoryRepository)(nil).Record), ctx, obs)
}

// RecordBatch mocks base method.
func (m *MockPriceHistoryRepository) RecordBatch(ctx context.Context, observations []*models.PriceObservation) (int, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordBatch", ctx, observations)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// RecordBatch indicates an expected call of RecordBatch.
func (mr *MockPriceHistoryRepositoryMockRecorder) RecordBatch(ctx, observations any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordBatch", reflect.TypeOf((*MockPriceHistoryRepository)(nil).RecordBatch), ctx, observations)
}

// MockFxRateRepository is a mock of FxRateRepository interface.
type MockFxRateRepository struct {
	ctrl     *gomock.Controller
	recorder *MockFxRateRepositoryMockRecorder
	isgomock struct{}
}

// MockFxRateRepositoryMockRecorder is the mock recorder for MockFxRateRepository.
type MockFxRateRepositoryMockRecorder struct {
	mock *MockFxRateRepository
}

// NewMockFxRateRepository creates a new mock instance.
func NewMockFxRateRepository(ctrl *gomock.Controller) *MockFxRateRepository {
	mock := &MockFxRateRepository{ctrl: ctrl}
	mock.recorder = &MockFxRateRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockFxRateRepository) EXPECT() *MockFxRateRepositoryMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockFxRateRepository) Get(ctx context.Context, base, quote string, date time.Time) (*models.FxRate, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, base, quote, date)
	ret0, _ := ret[0].(*models.FxRate)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockFxRateRepositoryMockRecorder) Get(ctx, base, quote, date any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockFxRateRepository)(nil).Get), ctx, base, quote, date)
}

// Put mocks base method.
func (m *MockFxRateRepository) Put(ctx context.Context, rate *models.FxRate) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Put", ctx, rate)
	ret0, _ := ret[0].(error)
	return ret0
}

// Put indicates an expected call of Put.
func (mr *MockFxRateRepositoryMockRecorder) Put(ctx, rate any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Put", reflect.TypeOf((*MockFxRateRepository)(nil).Put), ctx, rate)
}

// MockUnmatchedRepository is a mock of UnmatchedRepository interface.
type MockUnmatchedRepository struct {
	ctrl     *gomock.Controller
	recorder *MockUnmatchedRepositoryMockRecorder
	isgomock struct{}
}

// MockUnmatchedRepositoryMockRecorder is the mock recorder for MockUnmatchedRepository.
type MockUnmatchedRepositoryMockRecorder struct {
	mock *MockUnmatchedRepository
}

// NewMockUnmatchedRepository creates a new mock instance.
func NewMockUnmatchedRepository(ctrl *gomock.Controller) *MockUnmatchedRepository {
	mock := &MockUnmatchedRepository{ctrl: ctrl}
	mock.recorder = &MockUnmatchedRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUnmatchedRepository) EXPECT() *MockUnmatchedRepositoryMockRecorder {
	return m.recorder
}

// ListRecent mocks base method.
func (m *MockUnmatchedRepository) ListRecent(ctx context.Context, limit int) ([]*models.UnmatchedReference, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListRecent", ctx, limit)
	ret0, _ := ret[0].([]*models.UnmatchedReference)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListRecent indicates an expected call of ListRecent.
func (mr *MockUnmatchedRepositoryMockRecorder) ListRecent(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListRecent", reflect.TypeOf((*MockUnmatchedRepository)(nil).ListRecent), ctx, limit)
}

// Record mocks base method.
func (m *MockUnmatchedRepository) Record(ctx context.Context, source models.Source, reference, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, source, reference, reason)
	ret0, _ := ret[0].(error)
	return ret0
}

// Record indicates an expected call of Record.
func (mr *MockUnmatchedRepositoryMockRecorder) Record(ctx, source, reference, reason any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockUnmatchedRepository)(nil).Record), ctx, source, reference, reason)
}
