package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/domain"
	"github.com/jafarshop/productcreator/internal/normalize"
	"github.com/jafarshop/productcreator/internal/shopify"
)

// MediaRequest is the media part of a product request
type MediaRequest struct {
	Update      bool
	Files       []domain.MediaFile
	KeepIDs     []string
	Order       domain.MediaOrder
	SKU         string
	ProductName string
}

// HasWork reports whether the media step has anything to do.
// Updates always prune, so they always have work.
func (r MediaRequest) HasWork() bool {
	return r.Update || len(r.Files) > 0 || len(r.KeepIDs) > 0
}

// Assignment places one image at a 1-based position
type Assignment struct {
	Position int
	ImageID  int64
}

type mediaReconciler struct {
	timing config.TimingConfig
	logger *zap.Logger
}

func newMediaReconciler(timing config.TimingConfig, logger *zap.Logger) *mediaReconciler {
	return &mediaReconciler{timing: timing, logger: logger}
}

// Reconcile runs prune (updates), attach (creates), upload and reorder against one product.
// No sub-step stops the others; failures end up in the report.
func (m *mediaReconciler) Reconcile(ctx context.Context, client *shopify.Client, productID int64, req MediaRequest) domain.MediaReport {
	report := domain.MediaReport{
		Prune:   domain.SkippedStep(),
		Attach:  domain.SkippedStep(),
		Upload:  domain.SkippedStep(),
		Reorder: domain.SkippedStep(),
	}
	if !req.HasWork() {
		return report
	}

	if req.Update {
		// An empty keep list removes every image
		report.Prune = m.prune(ctx, client, productID, req.KeepIDs)
	} else if len(req.KeepIDs) > 0 {
		// Attach before uploading so upload placements line up with the editor's indexes
		report.Attach = m.attach(ctx, client, productID, req.KeepIDs)
		if report.Attach.Count > 0 && len(req.Files) > 0 {
			sleepWithContext(ctx, m.timing.MediaAttachDelay)
		}
	}

	var uploaded []int64
	if len(req.Files) > 0 {
		report.Upload, uploaded = m.upload(ctx, client, productID, req)
		sleepWithContext(ctx, m.timing.MediaUploadDelay)
	}

	switch {
	case len(req.Order) > 0:
		report.Reorder, report.CoverImageID = m.reorder(ctx, client, productID, func(live []shopify.Image) []Assignment {
			uploads := uploaded
			if len(uploads) == 0 {
				uploads = NewUploadIDs(live, KeepSet(req.KeepIDs))
			}
			return PlanReorder(live, req.Order, uploads, m.logger)
		})
	case len(req.KeepIDs) > 0:
		report.Reorder, report.CoverImageID = m.reorder(ctx, client, productID, func(live []shopify.Image) []Assignment {
			return PlanKeepOrder(live, req.KeepIDs)
		})
	}
	return report
}

func (m *mediaReconciler) prune(ctx context.Context, client *shopify.Client, productID int64, keepIDs []string) domain.StepReport {
	var report domain.StepReport
	product, err := client.GetProduct(ctx, productID)
	if err != nil {
		report.Fail(fmt.Sprintf("Error managing product media: %v", err))
		return report.Finish()
	}

	toRemove := PlanPrune(product.Images, KeepSet(keepIDs))
	m.logger.Info("Pruning product media",
		zap.Int64("product_id", productID),
		zap.Int("existing", len(product.Images)),
		zap.Int("keep", len(keepIDs)),
		zap.Int("remove", len(toRemove)),
	)
	for _, id := range toRemove {
		if err := client.DeleteProductImage(ctx, productID, id); err != nil {
			m.logger.Warn("Failed to remove media", zap.Int64("image_id", id), zap.Error(err))
			report.Fail(fmt.Sprintf("Failed to remove media %d: %v", id, err))
			continue
		}
		report.Count++
	}
	return report.Finish()
}

func (m *mediaReconciler) attach(ctx context.Context, client *shopify.Client, productID int64, keepIDs []string) domain.StepReport {
	var report domain.StepReport
	attached, userErrors, err := client.AttachFiles(ctx, productID, keepIDs)
	if err != nil {
		report.Fail(fmt.Sprintf("Error attaching existing media files: %v", err))
		return report.Finish()
	}
	for _, msg := range userErrors {
		report.Fail("User error: " + msg)
	}
	if attached == 0 {
		report.Fail("No files were attached - check file IDs and permissions")
	}
	report.Count = attached
	m.logger.Info("Attached existing media", zap.Int64("product_id", productID), zap.Int("attached", attached))
	return report.Finish()
}

// upload sends every file and returns the new image ids in upload order. Videos become
// product media without an image id, so they are not part of the returned list.
func (m *mediaReconciler) upload(ctx context.Context, client *shopify.Client, productID int64, req MediaRequest) (domain.StepReport, []int64) {
	var (
		report domain.StepReport
		images []int64
	)
	for i, file := range req.Files {
		filename := MediaFilename(req.SKU, req.ProductName, i+1, file.Filename)
		var (
			id  int64
			err error
		)
		if file.IsVideo() {
			id, err = client.UploadProductVideo(ctx, productID, filename, file.ContentType, file.Content)
		} else {
			id, err = client.UploadProductImage(ctx, productID, filename, file.Content)
		}
		if err != nil {
			m.logger.Warn("Failed to upload media", zap.String("filename", filename), zap.Error(err))
			report.Fail(fmt.Sprintf("Failed to upload %s: %v", filename, err))
			continue
		}
		report.Count++
		if !file.IsVideo() {
			images = append(images, id)
		}
		m.logger.Info("Uploaded media", zap.String("filename", filename), zap.Int64("media_id", id), zap.Bool("video", file.IsVideo()))
	}
	return report.Finish(), images
}

// reorder reads the live images, applies the plan and sets the cover to the lowest position
func (m *mediaReconciler) reorder(
	ctx context.Context,
	client *shopify.Client,
	productID int64,
	plan func(live []shopify.Image) []Assignment,
) (domain.StepReport, int64) {
	var report domain.StepReport
	product, err := client.GetProduct(ctx, productID)
	if err != nil {
		report.Fail(fmt.Sprintf("Error reordering product media: %v", err))
		return report.Finish(), 0
	}

	assignments := plan(product.Images)
	for _, a := range assignments {
		if err := client.SetImagePosition(ctx, productID, a.ImageID, a.Position); err != nil {
			report.Fail(fmt.Sprintf("Failed to reorder image %d: %v", a.ImageID, err))
			continue
		}
		report.Count++
	}
	m.logger.Info("Reordered product media",
		zap.Int64("product_id", productID),
		zap.Int("updated", report.Count),
		zap.Int("errors", len(report.Errors)),
	)

	if len(assignments) == 0 {
		return report.Finish(), 0
	}
	cover := assignments[0].ImageID
	if err := client.SetCoverImage(ctx, productID, cover); err != nil {
		m.logger.Warn("Failed to set main product image", zap.Int64("image_id", cover), zap.Error(err))
		return report.Finish(), 0
	}
	return report.Finish(), cover
}

// KeepSet normalizes keep ids to REST ids; global ids keep only their numeric suffix
func KeepSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		if strings.HasPrefix(id, "gid://") {
			id = shopify.NumericID(id)
		}
		set[id] = true
	}
	return set
}

// PlanPrune returns the live images that are not kept, in live order
func PlanPrune(live []shopify.Image, keep map[string]bool) []int64 {
	var out []int64
	for _, img := range live {
		if !keep[strconv.FormatInt(img.ID, 10)] {
			out = append(out, img.ID)
		}
	}
	return out
}

// NewUploadIDs returns the live images that are not kept, oldest upload first.
// It is the fallback when the upload responses carried no image ids.
func NewUploadIDs(live []shopify.Image, keep map[string]bool) []int64 {
	var fresh []shopify.Image
	for _, img := range live {
		if !keep[strconv.FormatInt(img.ID, 10)] {
			fresh = append(fresh, img)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].CreatedAt != fresh[j].CreatedAt {
			return fresh[i].CreatedAt < fresh[j].CreatedAt
		}
		return fresh[i].ID < fresh[j].ID
	})
	ids := make([]int64, len(fresh))
	for i, img := range fresh {
		ids[i] = img.ID
	}
	return ids
}

// PlanReorder resolves every placement to a live image. A placement without an explicit
// position takes the next free slot. Upload placements consume uploads in order and fall back
// to the unclaimed live image with the lowest current position. The result is sorted by position.
func PlanReorder(live []shopify.Image, order domain.MediaOrder, uploads []int64, logger *zap.Logger) []Assignment {
	if logger == nil {
		logger = zap.NewNop()
	}
	byID := make(map[string]shopify.Image, len(live))
	for _, img := range live {
		byID[strconv.FormatInt(img.ID, 10)] = img
	}

	positions := map[int]int64{}
	claimed := func(id int64) bool {
		for _, v := range positions {
			if v == id {
				return true
			}
		}
		return false
	}
	consumed := 0

	for _, placement := range order {
		position, ok := placement.TargetPosition()
		if !ok {
			position = len(positions) + 1
		}

		switch p := placement.(type) {
		case domain.PlatformPlacement:
			img, found := byID[p.ID]
			if !found {
				img, found = byID[shopify.NumericID(p.ID)]
			}
			if !found {
				logger.Warn("Could not find Shopify media on product", zap.String("media_id", p.ID))
				continue
			}
			positions[position] = img.ID

		case domain.UploadPlacement:
			if consumed < len(uploads) {
				positions[position] = uploads[consumed]
				consumed++
				continue
			}
			var remaining []shopify.Image
			for _, img := range live {
				if !claimed(img.ID) {
					remaining = append(remaining, img)
				}
			}
			if len(remaining) == 0 {
				logger.Warn("No remaining images for upload placement",
					zap.Int("sequence", p.Sequence), zap.Int("position", position))
				continue
			}
			sort.SliceStable(remaining, func(i, j int) bool {
				return positionOrLast(remaining[i]) < positionOrLast(remaining[j])
			})
			positions[position] = remaining[0].ID
			consumed++
		}
	}

	return sortedAssignments(positions)
}

// PlanKeepOrder places the kept images at 1..n in keep-list order; ids not on the product leave their slot empty
func PlanKeepOrder(live []shopify.Image, keepIDs []string) []Assignment {
	byID := make(map[string]int64, len(live))
	for _, img := range live {
		byID[strconv.FormatInt(img.ID, 10)] = img.ID
	}
	positions := map[int]int64{}
	for i, id := range keepIDs {
		if imageID, ok := byID[shopify.NumericID(id)]; ok {
			positions[i+1] = imageID
		}
	}
	return sortedAssignments(positions)
}

func sortedAssignments(positions map[int]int64) []Assignment {
	out := make([]Assignment, 0, len(positions))
	for pos, id := range positions {
		out = append(out, Assignment{Position: pos, ImageID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func positionOrLast(img shopify.Image) int {
	if img.Position <= 0 {
		return 999
	}
	return img.Position
}

// MediaFilename builds "{SKU}_{name}_{n}.{ext}"; the SKU falls back to NOSKU and
// the name part is dropped when it sanitizes to nothing.
func MediaFilename(sku, productName string, sequence int, original string) string {
	cleanSKU := normalize.Sanitize(sku)
	if cleanSKU == "" {
		cleanSKU = "NOSKU"
	}
	cleanName := normalize.Sanitize(productName)

	base := fmt.Sprintf("%s_%d", cleanSKU, sequence)
	if cleanName != "" {
		base = fmt.Sprintf("%s_%s_%d", cleanSKU, cleanName, sequence)
	}
	if i := strings.LastIndex(original, "."); i >= 0 && i < len(original)-1 {
		return base + "." + original[i+1:]
	}
	return base
}

func sleepWithContext(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
