package userapi

import (
	"context"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"

	"github.com/goliatone/go-user-api/middleware/jwtware"
)

var (
	passwordLower = regexp.MustCompile(`[a-z]`)
	passwordUpper = regexp.MustCompile(`[A-Z]`)
	passwordDigit = regexp.MustCompile(`[0-9]`)
)

type UsersControllerRoutes struct {
	Users string
	Login string
}

type UsersController struct {
	Debug  bool
	Logger Logger
	Repo   Users
	Tokens TokenService
	Auther *Auther
	Policy OwnershipPolicy
	Routes *UsersControllerRoutes
}

type UsersControllerOption func(*UsersController) *UsersController

func WithControllerLogger(logger Logger) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Debug = debug
		return c
	}
}

func WithControllerRepo(repo Users) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Repo = repo
		return c
	}
}

func WithControllerTokens(tokens TokenService) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Tokens = tokens
		return c
	}
}

func WithControllerAuther(auther *Auther) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Auther = auther
		return c
	}
}

func WithControllerPolicy(policy OwnershipPolicy) UsersControllerOption {
	return func(c *UsersController) *UsersController {
		c.Policy = policy
		return c
	}
}

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger: defLogger{},
		Policy: SelfOnlyPolicy,
		Routes: &UsersControllerRoutes{
			Users: "/api/users",
			Login: "/api/auth/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing Users repository in users controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in users controller...")
	}

	if c.Auther == nil {
		c.Auther = NewAuthenticator(c.Repo, c.Tokens).WithLogger(c.Logger)
	}

	return c
}

// RegisterUserRoutes mounts the user CRUD endpoints plus the login endpoint.
// List and Create are public; Show, Update and Delete require a valid bearer
// token. Update additionally runs the ownership policy.
func RegisterUserRoutes(app *fiber.App, opts ...UsersControllerOption) *UsersController {
	controller := NewUsersController(opts...)

	protected := jwtware.New(jwtware.Config{
		TokenValidator: tokenValidatorAdapter{tokens: controller.Tokens},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			controller.Logger.Warn("JWT verification failed for %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "Unauthorized",
				"message": "Invalid or missing token",
			})
		},
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			return WithIdentityContext(ctx, Identity{
				ID:    claims.UserID(),
				Email: claims.UserEmail(),
			})
		},
	})

	users := app.Group(controller.Routes.Users)
	users.Get("/", controller.List)
	users.Post("/", controller.Create)
	users.Get("/:id", protected, controller.Show)
	users.Put("/:id", protected, controller.Update)
	users.Delete("/:id", protected, controller.Delete)

	app.Post(controller.Routes.Login, controller.Login)

	return controller
}

// tokenValidatorAdapter bridges the package TokenService into the interface
// the middleware expects without an import cycle.
type tokenValidatorAdapter struct {
	tokens TokenValidator
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// CreateUserPayload is the registration payload
type CreateUserPayload struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Validate will run validation rules
func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 0).Error("must be at least 8 characters"),
			validation.Match(passwordLower).Error("must contain a lowercase letter"),
			validation.Match(passwordUpper).Error("must contain an uppercase letter"),
			validation.Match(passwordDigit).Error("must contain a digit"),
		),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 0)),
	)
}

// UpdateUserPayload is the partial-update payload; only supplied fields are
// applied.
type UpdateUserPayload struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Validate will run validation rules. A supplied field must carry a value;
// is.Email alone would wave an empty string through.
func (r UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
	)
}

func (r UpdateUserPayload) toPatch() UserPatch {
	return UserPatch{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// LoginPayload carries login credentials
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// List returns every user as a projection. The endpoint is public.
func (a *UsersController) List(c *fiber.Ctx) error {
	records, err := a.Repo.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(NewUserProjections(records))
}

// Create registers a new user and returns its projection with status 201.
func (a *UsersController) Create(c *fiber.Ctx) error {
	payload := new(CreateUserPayload)

	if err := c.BodyParser(payload); err != nil {
		return badPayload(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	if a.Debug {
		fmt.Println("======= USER CREATE =====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	// Pre-check gives a friendly conflict; the unique index catches the
	// race where two registrations pass this check concurrently.
	if _, err := a.Repo.GetByEmail(c.UserContext(), payload.Email); err == nil {
		return ErrEmailTaken
	} else if !IsRecordNotFound(err) {
		return err
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return err
	}

	user := &User{
		Email:        payload.Email,
		PasswordHash: hash,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
	}

	created, err := a.Repo.Create(c.UserContext(), user)
	if err != nil {
		return err
	}

	a.Logger.Info("Registered user %d (%s)", created.ID, created.Email)

	return c.Status(fiber.StatusCreated).JSON(NewUserProjection(created))
}

// Show returns a single user by id.
func (a *UsersController) Show(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	record, err := a.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(NewUserProjection(record))
}

// Update applies a partial update to the caller's own record.
func (a *UsersController) Update(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	identity, ok := IdentityFromContext(c.UserContext())
	if !ok {
		return ErrMissingIdentity
	}

	if err := a.Policy(identity, id); err != nil {
		return err
	}

	payload := new(UpdateUserPayload)
	if err := c.BodyParser(payload); err != nil {
		return badPayload(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	patch := payload.toPatch()
	if patch.IsZero() {
		return ErrEmptyUpdate
	}

	if a.Debug {
		fmt.Println("======= USER UPDATE =====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	// The address is only taken when it belongs to a different record.
	// The token's email claim may be stale after an earlier change, so the
	// check compares record ids, never the claim.
	if patch.Email != nil {
		if found, err := a.Repo.GetByEmail(c.UserContext(), *patch.Email); err == nil {
			if found.ID != id {
				return ErrEmailTaken
			}
		} else if !IsRecordNotFound(err) {
			return err
		}
	}

	record, err := a.Repo.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(NewUserProjection(record))
}

// Delete removes a user and answers 204.
func (a *UsersController) Delete(c *fiber.Ctx) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := a.Repo.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Login exchanges credentials for a signed token.
func (a *UsersController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		return badPayload(err)
	}

	if err := payload.Validate(); err != nil {
		return invalidPayload(err)
	}

	token, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}

func userIDParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, errors.New("Invalid user ID", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return int64(id), nil
}

func badPayload(err error) error {
	return errors.Wrap(err, errors.CategoryBadInput, "Malformed request body").
		WithCode(errors.CodeBadRequest)
}

func invalidPayload(err error) error {
	return errors.New(err.Error(), errors.CategoryValidation).
		WithCode(errors.CodeBadRequest)
}
