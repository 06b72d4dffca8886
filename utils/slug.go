package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueSlug slugifies name and appends -1, -2, ... until the slug is
// unused in table. excludeID keeps a row's own slug free during updates.
func GenerateUniqueSlug(tx *gorm.DB, table, name string, excludeID uint) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		q := tx.Table(table).Where("slug = ?", result)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

// RoomSlugName is the human name a room slug is derived from.
func RoomSlugName(roomType, roomNumber string) string {
	return fmt.Sprintf("%s room %s", roomType, roomNumber)
}
