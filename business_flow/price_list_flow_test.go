package businessflow

import (
	"bytes"
	"context"
	"testing"

	"github.com/amirphl/pastane-b2b/app/dto"
	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportFirmPriceList(t *testing.T) {
	f := bakeryFixture()
	f.products[1].StockCode = utils.ToPtr("PST-001")
	f.products[1].Category = &models.Category{ID: 10, Slug: "pasta", Name: models.LocalizedText{"de": "Torten"}}
	f.products[2] = newTestProduct(2, 20, "", "5.00")
	f.products[2].StockCode = utils.ToPtr("BRT-002")
	f.products[3] = newTestProduct(3, 20, "4.00", "")
	f.products[3].IsActive = utils.ToPtr(false)

	flow := NewPriceListFlow(
		newFakeFirmRepo(f.firms),
		&fakeProductRepo{products: f.products},
		f.engine(),
		dec("7"),
		utils.LocaleGerman,
		nil,
		f.logger(),
	)

	export, err := flow.ExportFirmPriceList(context.Background(), &dto.PriceListExportRequest{
		FirmID: 7,
		AsOf:   utils.ToPtr("2026-03-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "fiyat_listesi_7_2026-03-01.xlsx", export.FileName)
	assert.Equal(t, 2, export.Rows)

	xl, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer func() { _ = xl.Close() }()

	rows, err := xl.GetRows("Pastane")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "stock_code", rows[0][0])
	assert.Equal(t, []string{"PST-001", "Produkt", "Torten", "10", "9.45", "computed", "Pasta +5", "7", "10.11"}, rows[1][:9])
	assert.Equal(t, "BRT-002", rows[2][0])
	assert.Equal(t, "No list price for this sales channel", rows[2][9])
}

func TestExportFirmPriceList_UnknownFirm(t *testing.T) {
	f := bakeryFixture()
	flow := NewPriceListFlow(newFakeFirmRepo(f.firms), &fakeProductRepo{products: f.products}, f.engine(), dec("7"), "", nil, f.logger())

	_, err := flow.ExportFirmPriceList(context.Background(), &dto.PriceListExportRequest{FirmID: 404})
	assert.ErrorIs(t, err, ErrFirmNotFound)
}
