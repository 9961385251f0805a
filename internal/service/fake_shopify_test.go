package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/shopify"
)

const apiPrefix = "/admin/api/2024-10/"

var (
	productPath       = regexp.MustCompile(`^products/(\d+)\.json$`)
	imagesPath        = regexp.MustCompile(`^products/(\d+)/images\.json$`)
	imagePath         = regexp.MustCompile(`^products/(\d+)/images/(\d+)\.json$`)
	mediaPath         = regexp.MustCompile(`^products/(\d+)/media\.json$`)
	metafieldsPath    = regexp.MustCompile(`^products/(\d+)/metafields\.json$`)
	metafieldItemPath = regexp.MustCompile(`^products/(\d+)/metafields/(\d+)\.json$`)
)

// fakeShopify is an in-memory stand-in for the parts of the Admin API the workflow uses
type fakeShopify struct {
	mu sync.Mutex

	nextID     int64
	clock      time.Time
	products   map[int64]*shopify.Product
	metafields map[int64][]shopify.Metafield
	covers     map[int64]int64

	// choices are the allow-lists Shopify enforces per metafield key
	choices map[string][]string
	// listOnCreate answers POST products.json with the other products instead of the new one
	listOnCreate bool
	// dropCreate answers like listOnCreate but does not create anything
	dropCreate bool
	// failTitleSearch makes GET products.json?title= fail
	failTitleSearch bool
	// attachedImageOffset gives attached files a REST image id that differs from their file id
	attachedImageOffset int64

	requests      []string
	uploadedNames []string
	moves         []Assignment
}

func newFakeShopify() *fakeShopify {
	return &fakeShopify{
		nextID:     1000,
		clock:      time.Now().UTC().Add(-10 * time.Second),
		products:   map[int64]*shopify.Product{},
		metafields: map[int64][]shopify.Metafield{},
		covers:     map[int64]int64{},
		choices:    map[string][]string{},
	}
}

func (f *fakeShopify) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeShopify) tick() string {
	f.clock = f.clock.Add(time.Second)
	return f.clock.Format(time.RFC3339)
}

// seedProduct adds a product with images at positions 1..n, returning the product and image ids
func (f *fakeShopify) seedProduct(title string, images int) (int64, []int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &shopify.Product{ID: f.id(), Title: title, Status: "active", CreatedAt: f.tick()}
	p.Variants = []shopify.Variant{{ID: f.id(), Price: "1.00", Taxable: true}}
	var ids []int64
	for i := 0; i < images; i++ {
		img := shopify.Image{ID: f.id(), ProductID: p.ID, Position: i + 1, CreatedAt: f.tick()}
		p.Images = append(p.Images, img)
		ids = append(ids, img.ID)
	}
	f.products[p.ID] = p
	return p.ID, ids
}

func (f *fakeShopify) product(id int64) *shopify.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

func (f *fakeShopify) metafieldValue(productID int64, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, mf := range f.metafields[productID] {
		if mf.Key == key {
			return mf.Value, true
		}
	}
	return "", false
}

func (f *fakeShopify) countRequests(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeShopify) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, apiPrefix)
	f.requests = append(f.requests, r.Method+" "+path)
	body, _ := io.ReadAll(r.Body)

	switch {
	case path == "products.json" && r.Method == http.MethodPost:
		f.createProduct(w, body)
	case path == "products.json" && r.Method == http.MethodGet:
		f.listProducts(w, r)
	case path == "graphql.json":
		f.fileUpdate(w, body)
	case productPath.MatchString(path):
		f.productItem(w, r.Method, pathID(productPath, path, 1), body)
	case imagesPath.MatchString(path):
		f.createImage(w, pathID(imagesPath, path, 1), body)
	case imagePath.MatchString(path):
		f.imageItem(w, r.Method, pathID(imagePath, path, 1), pathID(imagePath, path, 2), body)
	case mediaPath.MatchString(path):
		f.createVideo(w, body)
	case metafieldsPath.MatchString(path):
		f.metafieldCollection(w, r.Method, pathID(metafieldsPath, path, 1), body)
	case metafieldItemPath.MatchString(path):
		f.updateMetafield(w, pathID(metafieldItemPath, path, 1), pathID(metafieldItemPath, path, 2), body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
	}
}

func pathID(re *regexp.Regexp, path string, group int) int64 {
	n, _ := strconv.ParseInt(re.FindStringSubmatch(path)[group], 10, 64)
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeShopify) others(exclude int64) []shopify.Product {
	out := []shopify.Product{}
	for id, p := range f.products {
		if id != exclude {
			out = append(out, *p)
		}
	}
	return out
}

func (f *fakeShopify) createProduct(w http.ResponseWriter, body []byte) {
	var in struct {
		Product shopify.ProductInput `json:"product"`
	}
	_ = json.Unmarshal(body, &in)

	if f.dropCreate {
		writeJSON(w, http.StatusOK, map[string]interface{}{"products": f.others(0)})
		return
	}

	p := &shopify.Product{
		ID:        f.id(),
		Title:     in.Product.Title,
		Handle:    strings.ToLower(strings.ReplaceAll(in.Product.Title, " ", "-")),
		Status:    in.Product.Status,
		BodyHTML:  in.Product.BodyHTML,
		Tags:      in.Product.Tags,
		CreatedAt: f.tick(),
	}
	for _, v := range in.Product.Variants {
		p.Variants = append(p.Variants, shopify.Variant{ID: f.id(), SKU: v.SKU, Price: v.Price, Taxable: true})
	}
	f.products[p.ID] = p

	if f.listOnCreate {
		writeJSON(w, http.StatusOK, map[string]interface{}{"products": f.others(p.ID)})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"product": p})
}

func (f *fakeShopify) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var out []shopify.Product
	if title := q.Get("title"); title != "" {
		if f.failTitleSearch {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"errors": "boom"})
			return
		}
		for _, p := range f.products {
			if p.Title == title {
				out = append(out, *p)
			}
		}
	} else {
		out = f.others(0)
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit < len(out) {
			out = out[:limit]
		}
	}
	if out == nil {
		out = []shopify.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": out})
}

func (f *fakeShopify) productItem(w http.ResponseWriter, method string, id int64, body []byte) {
	p, ok := f.products[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
		return
	}
	if method == http.MethodPut {
		var in struct {
			Product struct {
				Title    *string `json:"title"`
				BodyHTML *string `json:"body_html"`
				Status   *string `json:"status"`
				Tags     *string `json:"tags"`
				Variants []struct {
					ID      int64 `json:"id"`
					Taxable *bool `json:"taxable"`
				} `json:"variants"`
				Image *struct {
					ID int64 `json:"id"`
				} `json:"image"`
			} `json:"product"`
		}
		_ = json.Unmarshal(body, &in)
		if in.Product.Title != nil {
			p.Title = *in.Product.Title
		}
		if in.Product.BodyHTML != nil {
			p.BodyHTML = *in.Product.BodyHTML
		}
		if in.Product.Status != nil {
			p.Status = *in.Product.Status
		}
		if in.Product.Tags != nil {
			p.Tags = *in.Product.Tags
		}
		for _, v := range in.Product.Variants {
			for i := range p.Variants {
				if p.Variants[i].ID == v.ID && v.Taxable != nil {
					p.Variants[i].Taxable = *v.Taxable
				}
			}
		}
		if in.Product.Image != nil {
			f.covers[id] = in.Product.Image.ID
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (f *fakeShopify) addImage(productID, imageID int64) shopify.Image {
	p := f.products[productID]
	img := shopify.Image{ID: imageID, ProductID: productID, Position: len(p.Images) + 1, CreatedAt: f.tick()}
	p.Images = append(p.Images, img)
	return img
}

func (f *fakeShopify) createImage(w http.ResponseWriter, productID int64, body []byte) {
	if _, ok := f.products[productID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
		return
	}
	var in struct {
		Image struct {
			Filename string `json:"filename"`
		} `json:"image"`
	}
	_ = json.Unmarshal(body, &in)
	f.uploadedNames = append(f.uploadedNames, in.Image.Filename)
	img := f.addImage(productID, f.id())
	writeJSON(w, http.StatusOK, map[string]interface{}{"image": img})
}

func (f *fakeShopify) createVideo(w http.ResponseWriter, body []byte) {
	var in struct {
		Media struct {
			Filename string `json:"filename"`
		} `json:"media"`
	}
	_ = json.Unmarshal(body, &in)
	f.uploadedNames = append(f.uploadedNames, in.Media.Filename)
	writeJSON(w, http.StatusOK, map[string]interface{}{"media": map[string]interface{}{"id": f.id()}})
}

func (f *fakeShopify) imageItem(w http.ResponseWriter, method string, productID, imageID int64, body []byte) {
	p, ok := f.products[productID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
		return
	}
	for i := range p.Images {
		if p.Images[i].ID != imageID {
			continue
		}
		if method == http.MethodDelete {
			p.Images = append(p.Images[:i], p.Images[i+1:]...)
			for j := range p.Images {
				p.Images[j].Position = j + 1
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{})
			return
		}
		var in struct {
			Image struct {
				Position int `json:"position"`
			} `json:"image"`
		}
		_ = json.Unmarshal(body, &in)
		p.Images[i].Position = in.Image.Position
		f.moves = append(f.moves, Assignment{Position: in.Image.Position, ImageID: imageID})
		writeJSON(w, http.StatusOK, map[string]interface{}{"image": p.Images[i]})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
}

func (f *fakeShopify) choiceError(key, value string) ([]byte, bool) {
	allowed, ok := f.choices[key]
	if !ok {
		return nil, false
	}
	var items []string
	_ = json.Unmarshal([]byte(value), &items)
	for _, v := range items {
		found := false
		for _, a := range allowed {
			if a == v {
				found = true
			}
		}
		if !found {
			list, _ := json.Marshal(allowed)
			msg := fmt.Sprintf("Value %q does not exist in provided choices: %s.", v, list)
			body, _ := json.Marshal(map[string]interface{}{"errors": map[string]interface{}{"value": []string{msg}}})
			return body, true
		}
	}
	return nil, false
}

func (f *fakeShopify) metafieldCollection(w http.ResponseWriter, method string, productID int64, body []byte) {
	if method == http.MethodGet {
		list := f.metafields[productID]
		if list == nil {
			list = []shopify.Metafield{}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"metafields": list})
		return
	}
	var in struct {
		Metafield shopify.MetafieldInput `json:"metafield"`
	}
	_ = json.Unmarshal(body, &in)
	for _, mf := range f.metafields[productID] {
		if mf.Namespace == in.Metafield.Namespace && mf.Key == in.Metafield.Key {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": map[string]interface{}{"key": []string{"must be unique within this namespace on this resource"}},
			})
			return
		}
	}
	if errBody, bad := f.choiceError(in.Metafield.Key, in.Metafield.Value); bad {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write(errBody)
		return
	}
	mf := shopify.Metafield{
		ID:        f.id(),
		Namespace: in.Metafield.Namespace,
		Key:       in.Metafield.Key,
		Value:     in.Metafield.Value,
		Type:      in.Metafield.Type,
	}
	f.metafields[productID] = append(f.metafields[productID], mf)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"metafield": mf})
}

func (f *fakeShopify) updateMetafield(w http.ResponseWriter, productID, metafieldID int64, body []byte) {
	var in struct {
		Metafield struct {
			Value string `json:"value"`
		} `json:"metafield"`
	}
	_ = json.Unmarshal(body, &in)
	list := f.metafields[productID]
	for i := range list {
		if list[i].ID != metafieldID {
			continue
		}
		if errBody, bad := f.choiceError(list[i].Key, in.Metafield.Value); bad {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write(errBody)
			return
		}
		list[i].Value = in.Metafield.Value
		writeJSON(w, http.StatusOK, map[string]interface{}{"metafield": list[i]})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"errors": "Not Found"})
}

func (f *fakeShopify) fileUpdate(w http.ResponseWriter, body []byte) {
	var in struct {
		Variables struct {
			Input []shopify.FileUpdateInput `json:"input"`
		} `json:"variables"`
	}
	_ = json.Unmarshal(body, &in)
	var files []map[string]string
	for _, file := range in.Variables.Input {
		imageID, err := shopify.ExtractIDFromGID(file.ID)
		if err != nil || len(file.ReferencesToAdd) == 0 {
			continue
		}
		productID, _ := shopify.ExtractIDFromGID(file.ReferencesToAdd[0])
		if _, ok := f.products[productID]; !ok {
			continue
		}
		f.addImage(productID, imageID+f.attachedImageOffset)
		files = append(files, map[string]string{"id": file.ID})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"fileUpdate": map[string]interface{}{"files": files, "userErrors": []interface{}{}},
		},
	})
}

// newTestClient serves fake over TLS and returns a client pointed at it
func newTestClient(t *testing.T, handler http.Handler) (*shopify.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.ShopifyConfig{
		ShopDomain:  srv.Listener.Addr().String(),
		AccessToken: "shpat_test",
		APIVersion:  "2024-10",
	}
	return shopify.NewClientWithHTTP(cfg, srv.Client(), zap.NewNop()), srv
}
