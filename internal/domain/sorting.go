package domain

import "sort"

// SortNewestFirst sorts notifications by CreatedAt descending, ties broken
// by ID for stable output. It sorts in place.
func SortNewestFirst(notifs []Notification) {
	sort.SliceStable(notifs, func(i, j int) bool {
		if notifs[i].CreatedAt.Equal(notifs[j].CreatedAt) {
			return notifs[i].ID > notifs[j].ID
		}
		return notifs[i].CreatedAt.After(notifs[j].CreatedAt)
	})
}

// CountUnread returns the number of unread notifications in the slice.
func CountUnread(notifs []Notification) int {
	count := 0
	for i := range notifs {
		if notifs[i].IsUnread() {
			count++
		}
	}
	return count
}
