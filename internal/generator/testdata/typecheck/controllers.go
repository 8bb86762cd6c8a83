package typecheck

import (
	"context"

	"github.com/google/uuid"
	"github.com/toyz/routectl/pkg/routectl"
)

type App struct {
	Name string
}

type Account struct {
	ID string
}

type Filter struct {
	Tag string `query:"tag" form:"tag"`
}

type Signup struct {
	Email string `json:"email" form:"email"`
}

type (
	Blob   []byte
	Page   string
	Feed   string
	Script string
)

func Logged(next routectl.HandlerFunc) routectl.HandlerFunc {
	return next
}

//routectl::controller(path = "/posts", middleware = Logged, header("X-Service", "posts"))
type PostController struct{}

//routectl::get("/{id}/comments/{comment_id}", extract(app = State, comment_id = Path, id = Path, filter = Query))
func (p *PostController) Comment(app *App, comment_id int64, id uuid.UUID, filter Filter) (string, error) {
	return app.Name + filter.Tag, nil
}

//routectl::get("/{id}", extract(id = Path))
//routectl::head("/{id}", extract(id = Path))
func (p *PostController) Show(id int) string {
	return ""
}

//routectl::get("/", extract(app = State, filter = Query))
//routectl::get("/all", extract(app = State, filter = Query))
func (p *PostController) List(app *App, filter *Filter) []string {
	return nil
}

//routectl::delete("/{slug}", extract(slug = Path))
func (p *PostController) Delete(ctx context.Context, slug string) (*routectl.Response, error) {
	return routectl.NoContent(), nil
}

//routectl::controller(path = "/me")
type ProfileController struct{}

//routectl::get("/", extract(userAgent = HeaderParam, traceID = HeaderParam, theme = CookieParam, token = CookieParam, account = SessionParam, visits = SessionParam))
func (p *ProfileController) Show(userAgent string, traceID *string, theme string, token *string, account *Account, visits int) error {
	return nil
}

//routectl::get("/raw")
func (p *ProfileController) Raw(c routectl.RequestContext, ctx context.Context, _ Account) {
}

//routectl::controller(path = "/bodies", content_type("text/plain"))
type BodyController struct{}

//routectl::post("/json", extract(in = Json))
func (b *BodyController) JSON(in Signup) error { return nil }

//routectl::post("/json-ptr", extract(in = Json))
func (b *BodyController) JSONPtr(in *Signup) error { return nil }

//routectl::post("/form", extract(in = Form))
func (b *BodyController) Form(in *Signup) error { return nil }

//routectl::post("/bytes", extract(raw = Bytes))
func (b *BodyController) Bytes(raw []byte) error { return nil }

//routectl::post("/bytes-ptr", extract(raw = Bytes))
func (b *BodyController) BytesPtr(raw *[]byte) error { return nil }

//routectl::post("/blob", extract(raw = Bytes))
func (b *BodyController) Blob(raw Blob) error { return nil }

//routectl::post("/blob-ptr", extract(raw = Bytes))
func (b *BodyController) BlobPtr(raw *Blob) error { return nil }

//routectl::post("/text", extract(doc = Text))
func (b *BodyController) Text(doc string) error { return nil }

//routectl::post("/text-ptr", extract(doc = Text))
func (b *BodyController) TextPtr(doc *string) error { return nil }

//routectl::post("/html", extract(doc = Html))
func (b *BodyController) HTML(doc Page) error { return nil }

//routectl::post("/xml", extract(doc = Xml))
func (b *BodyController) XML(doc *Feed) error { return nil }

//routectl::post("/js", extract(doc = JavaScript))
func (b *BodyController) Script(doc Script) error { return nil }

//routectl::controller
type HealthController struct{}

//routectl::get("/health")
func (h *HealthController) Health(c routectl.RequestContext) error {
	return nil
}
