package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/domain"
	"github.com/jafarshop/productcreator/internal/normalize"
	"github.com/jafarshop/productcreator/internal/shopify"
	apperrors "github.com/jafarshop/productcreator/pkg/errors"
)

// VariantTarget identifies the saved product the variant generator works on
type VariantTarget struct {
	ID    int64
	Title string
	// ShopDomain is the canonical shop host discovered during the run
	ShopDomain   string
	ColourImages map[string]interface{}
}

// VariantGenerator creates the size/colour variants and prices of a product
type VariantGenerator interface {
	GenerateVariants(ctx context.Context, target VariantTarget) (bool, error)
}

type productService struct {
	client     *shopify.Client
	variants   VariantGenerator
	media      *mediaReconciler
	metafields *metafieldUpserter
	timing     config.TimingConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewProductService creates the product assembly workflow. variants may be nil, in which case
// variant generation is reported as skipped.
func NewProductService(client *shopify.Client, variants VariantGenerator, timing config.TimingConfig, logger *zap.Logger) *productService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &productService{
		client:     client,
		variants:   variants,
		media:      newMediaReconciler(timing, logger),
		metafields: newMetafieldUpserter(logger),
		timing:     timing,
		logger:     logger,
		now:        time.Now,
	}
}

// run is the state of one workflow invocation
type run struct {
	client *shopify.Client
	logger *zap.Logger
	result *domain.Result
}

func (r *run) warn(msg string, fields ...zap.Field) {
	r.logger.Warn(msg, fields...)
	r.result.Warnings = append(r.result.Warnings, msg)
}

// fail ends the run with a fatal error
func (r *run) fail(err error) (*domain.Result, error) {
	r.logger.Error("Product run failed", zap.Error(err))
	r.result.Success = false
	r.result.Error = err.Error()
	return r.result, err
}

// SaveProduct creates the product (or updates it when req carries a product id), then reconciles
// media, writes metafields, delegates variant generation, fixes tax flags and verifies the product.
// The returned error is non-nil only for fatal failures; partial failures are in the result's step reports.
func (s *productService) SaveProduct(ctx context.Context, req *domain.ProductRequest) (*domain.Result, error) {
	runID := uuid.NewString()
	r := &run{
		client: s.client,
		logger: s.logger.With(zap.String("run_id", runID)),
		result: &domain.Result{RunID: runID, Action: domain.ActionCreated},
	}
	if req.IsUpdate() {
		r.result.Action = domain.ActionUpdated
		r.logger = r.logger.With(zap.Int64("product_id", *req.ProductID))
	}

	if err := req.Validate(); err != nil {
		return r.fail(err)
	}
	title := req.TrimmedTitle()
	r.logger.Info("Saving product", zap.String("title", title), zap.String("action", string(r.result.Action)))

	product, err := s.writeProduct(ctx, r, req)
	if err != nil {
		return r.fail(err)
	}
	if product.ID == 0 {
		return r.fail(&apperrors.ErrAmbiguousResponse{
			Operation: string(r.result.Action),
			Detail:    "Shopify API response does not contain a product ID",
		})
	}
	if !req.IsUpdate() && product.Title != title {
		r.warn(fmt.Sprintf("Product title mismatch: expected %q but got %q", title, product.Title),
			zap.Int64("product_id", product.ID))
	}
	r.logger = r.logger.With(zap.Int64("product_id", product.ID))
	r.result.Product = &domain.ProductSummary{
		ID:     product.ID,
		Title:  product.Title,
		Handle: product.Handle,
		Status: product.Status,
	}

	mediaReq := MediaRequest{
		Update:      req.IsUpdate(),
		Files:       req.MediaFiles,
		KeepIDs:     req.ShopifyMediaIDs,
		Order:       req.MediaOrder,
		ProductName: title,
	}
	if mediaReq.HasWork() {
		if len(mediaReq.Files) > 0 {
			mediaReq.SKU = s.filenameSKU(ctx, r, req, product)
		}
		report := s.media.Reconcile(ctx, r.client, product.ID, mediaReq)
		r.result.Media = &report
		if !report.Success() {
			r.logger.Warn("Media step finished with errors", zap.Strings("errors", report.Errors()))
		}
	}

	fields := BuildMetafields(req)
	metafieldReport := domain.SkippedStep()
	if len(fields) > 0 {
		metafieldReport = s.metafields.Upsert(ctx, r.client, product.ID, fields)
		if metafieldReport.Success {
			// Let Shopify settle the metafields before the variant generator reads them
			sleepWithContext(ctx, s.timing.MetafieldSettleDelay)
		} else {
			r.logger.Warn("Metafield step finished with errors", zap.Strings("errors", metafieldReport.Errors))
		}
	}
	r.result.Metafields = &metafieldReport

	if !req.IsUpdate() {
		sleepWithContext(ctx, s.timing.VariantIndexDelay)
	}
	variantReport := s.generateVariants(ctx, r, req, product)
	r.result.Variants = &variantReport

	taxReport := domain.SkippedStep()
	if !req.Taxable() {
		taxReport = s.clearTaxable(ctx, r, product.ID)
	}
	r.result.Taxes = &taxReport

	s.verify(ctx, r, product.ID)

	r.result.Success = true
	r.result.Message = fmt.Sprintf("Product '%s' %s successfully", product.Title, r.result.Action)
	r.logger.Info("Product run completed", zap.String("shop_domain", r.client.Domain()))
	return r.result, nil
}

// writeProduct creates or updates the core product fields and resolves the written product
func (s *productService) writeProduct(ctx context.Context, r *run, req *domain.ProductRequest) (*shopify.Product, error) {
	title := req.TrimmedTitle()
	input := shopify.ProductInput{
		Title:    title,
		BodyHTML: req.Description,
		Status:   string(req.Status.OrDefault()),
		Tags:     req.Tags,
	}

	var (
		write *shopify.ProductWrite
		err   error
	)
	if req.IsUpdate() {
		// Variants and options belong to the variant generator; an update only touches product fields
		write, err = r.client.UpdateProduct(ctx, *req.ProductID, input)
		if shopify.IsStatus(err, http.StatusNotFound) {
			return nil, &apperrors.ErrNotFound{Resource: "product", ID: strconv.FormatInt(*req.ProductID, 10)}
		}
	} else {
		input.Variants = []shopify.VariantInput{placeholderVariant(req)}
		write, err = r.client.CreateProduct(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	if write.RedirectedHost != "" {
		r.logger.Info("Using canonical Shopify domain for the rest of the run", zap.String("shop_domain", write.RedirectedHost))
		r.client = r.client.WithDomain(write.RedirectedHost)
	}

	if req.IsUpdate() {
		return resolveUpdated(write.Payload, *req.ProductID, title)
	}
	return s.resolveCreated(ctx, r, write.Payload, title)
}

func placeholderVariant(req *domain.ProductRequest) shopify.VariantInput {
	price := string(req.Price)
	if strings.TrimSpace(price) == "" {
		price = "0.00"
	}
	v := shopify.VariantInput{
		Price:             normalize.FormatPrice(price),
		SKU:               strings.TrimSpace(req.SKU),
		RequiresShipping:  true,
		InventoryQuantity: req.InventoryQuantity,
	}
	if req.Weight > 0 {
		v.Weight = req.Weight
	}
	return v
}

// resolveCreated finds the new product when Shopify answered a create with a list. It tries an exact
// title match in the list, then a title search, then the newest products created within the last minute.
// The last step can pick another product with the same title created in that minute.
func (s *productService) resolveCreated(ctx context.Context, r *run, payload *shopify.ProductPayload, title string) (*shopify.Product, error) {
	if payload.Product != nil {
		return payload.Product, nil
	}
	r.logger.Warn("Create answered with a product list", zap.Int("count", len(payload.Products)))

	for i := range payload.Products {
		if payload.Products[i].Title == title {
			return &payload.Products[i], nil
		}
	}

	found, err := r.client.SearchProductsByTitle(ctx, title)
	if err != nil {
		r.logger.Warn("Error searching for product by title", zap.Error(err))
	}
	for i := range found {
		if found[i].Title == title {
			return &found[i], nil
		}
	}

	recent, err := r.client.ListRecentProducts(ctx, 5)
	if err != nil {
		r.logger.Warn("Error listing recent products", zap.Error(err))
	}
	cutoff := s.now().Add(-time.Minute)
	for i := range recent {
		created := recent[i].CreatedTime()
		if created.IsZero() || created.Before(cutoff) {
			continue
		}
		if recent[i].Title == title {
			return &recent[i], nil
		}
	}

	return nil, &apperrors.ErrAmbiguousResponse{
		Operation: "create product",
		Detail: fmt.Sprintf("Shopify returned a list of existing products instead of the new product and no product titled %q was found; the product was probably not created",
			title),
	}
}

// resolveUpdated picks the updated product out of a list answer, preferring a title and id match
func resolveUpdated(payload *shopify.ProductPayload, productID int64, title string) (*shopify.Product, error) {
	if payload.Product != nil {
		return payload.Product, nil
	}
	if len(payload.Products) == 0 {
		return nil, &apperrors.ErrAmbiguousResponse{
			Operation: "update product",
			Detail:    "response contains 'products' but the array is empty",
		}
	}
	for i := range payload.Products {
		if payload.Products[i].ID == productID && payload.Products[i].Title == title {
			return &payload.Products[i], nil
		}
	}
	for i := range payload.Products {
		if payload.Products[i].ID == productID {
			return &payload.Products[i], nil
		}
	}
	return nil, &apperrors.ErrAmbiguousResponse{
		Operation: "update product",
		Detail:    fmt.Sprintf("could not find product %d in response with %d products", productID, len(payload.Products)),
	}
}

// filenameSKU picks the SKU used in upload filenames
func (s *productService) filenameSKU(ctx context.Context, r *run, req *domain.ProductRequest, product *shopify.Product) string {
	if sku := RequestCustomSKU(req); sku != "" {
		return sku
	}
	if sku := strings.TrimSpace(req.SKU); sku != "" {
		return sku
	}
	remote, err := r.client.ListProductMetafields(ctx, product.ID)
	if err != nil {
		r.logger.Debug("Could not read custom.sku metafield", zap.Error(err))
	}
	for _, mf := range remote {
		if mf.Namespace == domain.NamespaceCustom && mf.Key == domain.KeySKU {
			if sku := strings.TrimSpace(mf.Value); sku != "" {
				return sku
			}
		}
	}
	if len(product.Variants) > 0 && product.Variants[0].SKU != "" {
		return product.Variants[0].SKU
	}
	return "NOSKU"
}

func (s *productService) generateVariants(ctx context.Context, r *run, req *domain.ProductRequest, product *shopify.Product) domain.StepReport {
	if s.variants == nil {
		r.logger.Info("No variant generator configured; skipping variant generation")
		return domain.SkippedStep()
	}
	var report domain.StepReport
	target := VariantTarget{
		ID:           product.ID,
		Title:        product.Title,
		ShopDomain:   r.client.Domain(),
		ColourImages: req.ColourImages,
	}
	ok, err := s.variants.GenerateVariants(ctx, target)
	switch {
	case err != nil:
		report.Fail(fmt.Sprintf("Variant generation failed: %v", err))
	case !ok:
		report.Fail("Variant generator reported failure")
	default:
		report.Count = 1
	}
	if len(report.Errors) > 0 {
		r.logger.Warn("Variant generation failed", zap.Strings("errors", report.Errors))
	}
	return report.Finish()
}

// clearTaxable sets taxable=false on every variant; the variant generator creates them taxable
func (s *productService) clearTaxable(ctx context.Context, r *run, productID int64) domain.StepReport {
	var report domain.StepReport
	product, err := r.client.GetProduct(ctx, productID)
	if err != nil {
		report.Fail(fmt.Sprintf("Failed to get product for taxable update: %v", err))
		return report.Finish()
	}
	updates := make([]shopify.VariantUpdate, 0, len(product.Variants))
	for _, v := range product.Variants {
		updates = append(updates, shopify.VariantUpdate{ID: v.ID, Taxable: false})
	}
	if len(updates) == 0 {
		return report.Finish()
	}
	if err := r.client.UpdateVariants(ctx, productID, updates); err != nil {
		report.Fail(fmt.Sprintf("Failed to update taxable field: %v", err))
		return report.Finish()
	}
	report.Count = len(updates)
	r.logger.Info("Cleared taxable flag on variants", zap.Int("variants", len(updates)))
	return report.Finish()
}

// verify reads the product back; problems are warnings because the write already succeeded
func (s *productService) verify(ctx context.Context, r *run, productID int64) {
	verifyCtx := ctx
	if s.timing.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, s.timing.VerifyTimeout)
		defer cancel()
	}
	product, err := r.client.GetProduct(verifyCtx, productID)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		r.warn("Verification request timed out; the product was still saved")
	case err != nil:
		r.warn(fmt.Sprintf("Could not verify product existence: %v", err))
	case product.ID != productID:
		r.warn("Product verification returned a different product")
	default:
		r.logger.Info("Verified product exists in Shopify")
	}
}
