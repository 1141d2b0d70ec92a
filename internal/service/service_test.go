package service

import (
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories and services against an in-memory
// database so integration behavior (transactions, conditional updates,
// cascades) is exercised for real.
type testEnv struct {
	db        *gorm.DB
	users     UserService
	packages  PackageService
	orders    OrderService
	payments  PaymentService
	revisions RevisionService
	documents DocumentService
	settings  SettingService
	stats     StatisticsService
	activity  ActivityService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.ServicePackage{},
		&model.Order{},
		&model.Payment{},
		&model.Document{},
		&model.Revision{},
		&model.ActivityLog{},
		&model.Setting{},
	)
	require.NoError(t, err)

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewServicePackageRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	txManager := repository.NewTransactionManager(db)

	activity := NewActivityService(activityRepo)

	return &testEnv{
		db:        db,
		users:     NewUserService(userRepo, orderRepo, paymentRepo, documentRepo, revisionRepo, activityRepo, txManager, activity),
		packages:  NewPackageService(packageRepo, orderRepo, paymentRepo, documentRepo, revisionRepo, txManager, activity),
		orders:    NewOrderService(orderRepo, packageRepo, userRepo, documentRepo, txManager, activity, nil, nil),
		payments:  NewPaymentService(paymentRepo, orderRepo, txManager, activity, nil, nil),
		revisions: NewRevisionService(revisionRepo, orderRepo, txManager, activity, nil),
		documents: NewDocumentService(documentRepo, orderRepo, activity),
		settings:  NewSettingService(settingRepo, activity),
		stats:     NewStatisticsService(db),
		activity:  activity,
	}
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPackage(t *testing.T, db *gorm.DB, name, price string) *model.ServicePackage {
	t.Helper()

	p, err := decimal.NewFromString(price)
	require.NoError(t, err)

	pkg := &model.ServicePackage{
		Name:         name,
		Description:  "Paket " + name,
		Price:        p,
		DurationDays: 14,
		IsActive:     true,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

func seedOrder(t *testing.T, db *gorm.DB, client *model.User, pkg *model.ServicePackage, status string) *model.Order {
	t.Helper()

	order := &model.Order{
		Status:      status,
		TotalAmount: pkg.Price,
		ClientID:    client.ID,
		ServiceID:   pkg.ID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedResultDocument(t *testing.T, db *gorm.DB, order *model.Order, uploader *model.User) *model.Document {
	t.Helper()

	doc := &model.Document{
		OrderID:    order.ID,
		UploaderID: uploader.ID,
		FileName:   "laporan-final.pdf",
		FileURL:    "https://files.example.com/laporan-final.pdf",
		IsResult:   true,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func assignAccountant(t *testing.T, db *gorm.DB, order *model.Order, accountant *model.User) {
	t.Helper()
	require.NoError(t, db.Model(&model.Order{}).
		Where("id = ?", order.ID).
		Update("accountant_id", accountant.ID).Error)
	order.AccountantID = &accountant.ID
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func orderByID(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Order {
	t.Helper()
	var order model.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return &order
}
