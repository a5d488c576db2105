package querycache

import (
	"clinic-portal-service/internal/app/contracts"
	"time"
)

var (
	PresetCalendar = contracts.CachePreset{Name: "calendar", StaleTime: time.Minute, CacheTime: 10 * time.Minute}
	PresetList     = contracts.CachePreset{Name: "list", StaleTime: 30 * time.Second, CacheTime: 5 * time.Minute}
	PresetDetail   = contracts.CachePreset{Name: "detail", StaleTime: time.Minute, CacheTime: 10 * time.Minute}
	PresetStatic   = contracts.CachePreset{Name: "static", StaleTime: time.Hour, CacheTime: 24 * time.Hour}
)
