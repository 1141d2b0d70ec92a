package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingUpsert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := seedUser(t, env.db, "admin1", model.RoleAdmin)

	created, err := env.settings.Upsert(ctx, admin.ID.String(), UpsertSettingRequest{
		Key:         "bank_account",
		Value:       "BCA 1234567890 a.n. RISA BUR",
		Description: "Rekening tujuan transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, "BCA 1234567890 a.n. RISA BUR", created.Value)

	// Upserting the same key overwrites, it does not duplicate
	updated, err := env.settings.Upsert(ctx, admin.ID.String(), UpsertSettingRequest{
		Key:   "bank_account",
		Value: "Mandiri 9876543210 a.n. RISA BUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mandiri 9876543210 a.n. RISA BUR", updated.Value)

	assert.EqualValues(t, 1, countRows(t, env.db, &model.Setting{}, "key = ?", "bank_account"))

	fetched, err := env.settings.Get(ctx, "bank_account")
	require.NoError(t, err)
	assert.Equal(t, "Mandiri 9876543210 a.n. RISA BUR", fetched.Value)
}

func TestSettingGetUnknownKey(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.settings.Get(context.Background(), "no_such_key")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSettingList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := seedUser(t, env.db, "admin2", model.RoleAdmin)

	for _, kv := range [][2]string{
		{"bank_account", "BCA 1234567890"},
		{"contact_email", "halo@risabur.example"},
	} {
		_, err := env.settings.Upsert(ctx, admin.ID.String(), UpsertSettingRequest{Key: kv[0], Value: kv[1]})
		require.NoError(t, err)
	}

	settings, err := env.settings.List(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	// List comes back key-ordered
	assert.Equal(t, "bank_account", settings[0].Key)
	assert.Equal(t, "contact_email", settings[1].Key)
}
