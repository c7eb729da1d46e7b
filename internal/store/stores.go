package store

import "database/sql"

// Stores bundles every table store over one connection pool.
type Stores struct {
	Users     *UserStore
	News      *NewsStore
	Events    *EventStore
	Pages     *PageStore
	Gallery   *GalleryStore
	Contacts  *ContactStore
	Directory *DirectoryStore
	Stats     *StatsStore
	Search    *SearchStore
}

// New creates all stores for db.
func New(db *sql.DB) *Stores {
	return &Stores{
		Users:     NewUserStore(db),
		News:      NewNewsStore(db),
		Events:    NewEventStore(db),
		Pages:     NewPageStore(db),
		Gallery:   NewGalleryStore(db),
		Contacts:  NewContactStore(db),
		Directory: NewDirectoryStore(db),
		Stats:     NewStatsStore(db),
		Search:    NewSearchStore(db),
	}
}
