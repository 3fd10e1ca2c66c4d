package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"

	"dealership/adapters/database"
	"dealership/adapters/notify"
	redisAdapter "dealership/adapters/redis"
	internalS3 "dealership/adapters/s3"
	"dealership/adapters/session"
	"dealership/adapters/upload"
	"dealership/inventory"
)

const (
	DefaultUploadDir       = "static/uploads"
	DefaultUploadURLPrefix = "/static/uploads"
	bootstrapLockKey       = "bootstrap:lock"
)

type ServerImpl struct {
	store        *database.Store
	inventory    *inventory.Inventory
	notifier     *notify.Notifier
	sessionStore session.IStore
	redisClient  *redis.Client
	localSink    *upload.LocalSink

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"
	ctx := context.Background()
	if config.Upload.Dir == "" {
		config.Upload.Dir = DefaultUploadDir
	}
	if config.Upload.URLPrefix == "" {
		config.Upload.URLPrefix = DefaultUploadURLPrefix
	}
	if config.Session.CookieMaxAge <= 0 {
		config.Session.CookieMaxAge = 24 * time.Hour
	}

	// 初始化資料庫連線
	store, err := database.Open(ctx, database.Config{
		URL:     config.DB.URL,
		Path:    config.DB.Path,
		SSLMode: config.DB.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to open database, err=%w", op, err)
	}
	impl := &ServerImpl{store: store, config: config}

	// 初始化Redis連線
	if config.Redis.Enabled() {
		impl.redisClient, err = redisAdapter.Connect(ctx, config.Redis.URL)
		if err != nil {
			impl.Close()
			return nil, fmt.Errorf("[%s] Fail to connect to redis, err=%w", op, err)
		}
	}

	// 建表與種子資料，多個實例共用資料庫時以Redis鎖確保只有一個實例執行
	hasher := inventory.NewBcryptHasher(0)
	bootstrap := func(ctx context.Context) error {
		return inventory.Bootstrap(ctx, store, hasher, config.Seed.AdminPassword)
	}
	if impl.redisClient != nil {
		locker := redisAdapter.NewLocker(impl.redisClient)
		err = locker.Do(ctx, config.Redis.KeyPrefix+bootstrapLockKey, bootstrap)
	} else {
		err = bootstrap(ctx)
	}
	if err != nil {
		impl.Close()
		return nil, fmt.Errorf("[%s] Fail to bootstrap database, err=%w", op, err)
	}

	// 初始化上傳檔案的儲存位置
	sink, err := impl.newSink(ctx)
	if err != nil {
		impl.Close()
		return nil, fmt.Errorf("[%s] Fail to create upload sink, err=%w", op, err)
	}
	resolverOpts := []upload.ResolverOption{}
	if config.Upload.MaxSize > 0 {
		resolverOpts = append(resolverOpts, upload.WithMaxSize(config.Upload.MaxSize))
	}
	resolver := upload.NewResolver(sink, resolverOpts...)

	impl.inventory = inventory.New(store, resolver,
		inventory.WithPerPage(config.Listing.PerPage),
		inventory.WithPasswordHasher(hasher),
		inventory.WithPolicy(bluemonday.UGCPolicy()),
	)
	impl.notifier = notify.NewNotifier(notify.MailConfig{
		Host:     config.Mail.Host,
		Port:     config.Mail.Port,
		Username: config.Mail.Username,
		Password: config.Mail.Password,
		From:     config.Mail.From,
	})

	// 初始化session儲存
	if impl.redisClient != nil {
		impl.sessionStore = redisAdapter.NewStore(
			impl.redisClient,
			redisAdapter.WithStorePrefix(config.Redis.KeyPrefix+"session:"),
			redisAdapter.WithStoreTTL(config.Session.CookieMaxAge),
		)
	} else {
		impl.sessionStore = session.NewMemoryStore(config.Session.CookieMaxAge)
	}

	slog.Info("Server initialized",
		slog.String("database", store.Backend().Name()),
		slog.Bool("s3", config.S3.Enabled()),
		slog.Bool("redis", impl.redisClient != nil),
		slog.Bool("mail", config.Mail.Host != ""),
	)
	return impl, nil
}

func (impl *ServerImpl) newSink(ctx context.Context) (upload.Sink, error) {
	const op = "ServerImpl.newSink"
	if !impl.config.S3.Enabled() {
		impl.localSink = upload.NewLocalSink(impl.config.Upload.Dir, impl.config.Upload.URLPrefix)
		return impl.localSink, nil
	}

	// 初始化S3客戶端
	region := impl.config.S3.Region
	if region == "" {
		region = "auto"
	}
	loadOpts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(region)}
	if impl.config.S3.Endpoint != "" {
		loadOpts = append(loadOpts, awsCfg.WithBaseEndpoint(impl.config.S3.Endpoint))
	}
	if impl.config.S3.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(impl.config.S3.AccessKeyID, impl.config.S3.SecretAccessKey, ""),
		))
	}
	s3Cfg, err := awsCfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
	}
	client := s3.NewFromConfig(s3Cfg, func(o *s3.Options) {
		o.UsePathStyle = impl.config.S3.Endpoint != ""
	})
	s3Operator, err := internalS3.NewS3Operator(client, impl.config.S3.Bucket, impl.config.S3.Prefix, impl.config.S3.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create S3 operator, err=%w", op, err)
	}
	return s3Operator, nil
}

// Inventory 回傳伺服器使用的 Inventory
func (impl *ServerImpl) Inventory() *inventory.Inventory {
	return impl.inventory
}

// Router 建立包含所有路由的 gin.Engine
func (impl *ServerImpl) Router() *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = 8 << 20
	if impl.localSink != nil {
		router.Static(impl.localSink.URLPrefix, impl.localSink.Dir)
	}
	router.Use(impl.SessionMiddleware())

	// 公開頁面
	router.GET("/", impl.GetIndex)
	router.GET("/cars", impl.GetCars)
	router.GET("/cars/:id", impl.GetCar)
	router.GET("/contact_seller/:id", impl.GetContactSeller)
	router.POST("/contact_seller/:id", impl.PostContactSeller)
	router.POST("/send_message", impl.PostSendMessage)

	// 登入與註冊
	router.GET("/login", impl.GetLogin)
	router.POST("/login", impl.PostLogin)
	router.GET("/logout", impl.GetLogout)
	router.GET("/register", impl.GetRegister)
	router.POST("/register", impl.PostRegister)

	// 後台
	admin := router.Group("/admin", impl.RequireAdmin())
	admin.GET("/", impl.GetAdminDashboard)
	admin.GET("/sellers", impl.GetAdminSellers)
	admin.GET("/add_seller", impl.GetAddSeller)
	admin.POST("/add_seller", impl.PostAddSeller)
	admin.GET("/edit_seller/:id", impl.GetEditSeller)
	admin.POST("/edit_seller/:id", impl.PostEditSeller)
	admin.GET("/delete_seller/:id", impl.GetDeleteSeller)
	admin.GET("/add_car", impl.GetAddCar)
	admin.POST("/add_car", impl.PostAddCar)
	admin.GET("/edit_car/:id", impl.GetEditCar)
	admin.POST("/edit_car/:id", impl.PostEditCar)
	admin.GET("/delete_car/:id", impl.GetDeleteCar)
	admin.GET("/delete_car_image/:image_id/:car_id", impl.GetDeleteCarImage)
	return router
}

func (impl *ServerImpl) Close() {
	// 關閉Redis連線
	if impl.redisClient != nil {
		if err := impl.redisClient.Close(); err != nil {
			slog.Warn("Fail to close redis client", slog.Any("error", err))
		}
	}
	// 關閉資料庫連線
	if impl.store != nil {
		if err := impl.store.Close(); err != nil {
			slog.Warn("Fail to close database", slog.Any("error", err))
		}
	}
}
