package core

import "sort"

// unsetTime sorts records without a time after every timed record.
const unsetTime = "99:99"

// SortServices orders the catalog for display: most used first, ties by
// name.
func SortServices(services []Service) {
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].UsageCount != services[j].UsageCount {
			return services[i].UsageCount > services[j].UsageCount
		}
		return services[i].Name < services[j].Name
	})
}

// SortClients orders the roster by the concatenation of last and first
// name. The concatenation (rather than a two-level compare) is the
// documented policy: "AnnaB" sorts between "Ann" and "Anne" regardless of
// where the surname ends.
func SortClients(clients []Client) {
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].LastName+clients[i].FirstName < clients[j].LastName+clients[j].FirstName
	})
}

// SortRecordsByTime orders a day's records ascending by time. Records
// without a time sort last; the sort is stable so equal times keep their
// stored relative order.
func SortRecordsByTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return timeOrUnset(records[i].Time) < timeOrUnset(records[j].Time)
	})
}

func timeOrUnset(t string) string {
	if t == "" {
		return unsetTime
	}
	return t
}
