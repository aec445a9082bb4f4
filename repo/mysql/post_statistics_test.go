package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Xushengqwer/go-common/commonerrors"
	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newStatsRepoFixture 用 sqlmock 搭一个不依赖真实 MySQL 的仓库实例。
// 协议细节（变更行数 vs 匹配行数）由 mock 的返回结果模拟。
func newStatsRepoFixture(t *testing.T) (PostStatisticsRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	zapLogger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)

	return NewPostStatisticsRepository(db, zapLogger), mock
}

// 钳制在零值上的递减: UPDATE 命中了行但值未变化，默认协议下驱动报告
// 0 行变更。行确实存在时必须按成功的无操作处理，而不是误报行缺失
// 让调用方重试后进死信。
func TestAtomicIncrement_ClampedDecrementAtZeroIsNotMissingRow(t *testing.T) {
	repo, mock := newStatsRepoFixture(t)

	mock.ExpectExec("UPDATE `post_statistics`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	err := repo.AtomicIncrement(context.Background(), 42, FieldLikesCount, -1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAtomicIncrement_MissingRowIsNotFound(t *testing.T) {
	repo, mock := newStatsRepoFixture(t)

	mock.ExpectExec("UPDATE `post_statistics`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	err := repo.AtomicIncrement(context.Background(), 42, FieldLikesCount, 1)

	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAtomicIncrement_ChangedRowSkipsExistenceCheck(t *testing.T) {
	repo, mock := newStatsRepoFixture(t)

	mock.ExpectExec("UPDATE `post_statistics`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AtomicIncrement(context.Background(), 42, FieldCommentsCount, 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
