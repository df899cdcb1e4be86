package app

import (
	"fmt"
	"log/slog"

	"photopick/internal/config"
	"photopick/internal/storage"
	"photopick/internal/storage/docstore"
	filestorage "photopick/internal/storage/filestorage"
	redisstorage "photopick/internal/storage/redis"
	"photopick/internal/storage/redisdoc"
	"photopick/internal/storage/thumbcache"

	httpapp "photopick/internal/app/http"
	item "photopick/internal/services/item_service"
	list "photopick/internal/services/list_service"
	results "photopick/internal/services/results_service"
	httprouters "photopick/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
}

// New wires the document store, file storage, thumbnail cache and services
// into a runnable HTTP server. Wiring errors are fatal.
func New(log *slog.Logger, cfg *config.Config) *App {
	var store docstore.Store

	switch cfg.Storage.Driver {
	case "file", "":
		fileStore, err := docstore.NewFileStore(cfg.Storage.Path)
		if err != nil {
			panic(err)
		}
		store = fileStore
	case "redis":
		client := redisstorage.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		store = redisdoc.New(client.Client, cfg.Storage.Key)
	default:
		panic(fmt.Errorf("%w: %s", storage.ErrUnknownDriver, cfg.Storage.Driver))
	}

	db := docstore.NewDB(store)

	files, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
	if err != nil {
		panic(err)
	}

	thumbs, err := thumbcache.New(cfg.Thumbnails.BaseDir, cfg.Thumbnails.BaseURL, cfg.Thumbnails.MaxDim)
	if err != nil {
		panic(err)
	}

	strict := cfg.Votes.Strict()

	itemService := item.NewItemService(log, db, files, thumbs, strict)
	listService := list.NewListService(log, db, strict)
	resultsService := results.NewResultsService(log, db)

	routers := httprouters.NewRouter(log, itemService, listService, resultsService)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, routers, httpapp.StaticConfig{
		PhotosDir: cfg.FileStorage.BaseDir,
		PhotosURL: cfg.FileStorage.BaseURL,
		ThumbsDir: cfg.Thumbnails.BaseDir,
		ThumbsURL: cfg.Thumbnails.BaseURL,
	})

	return &App{HTTPServer: server}
}
