// Package workbook evaluates a sheet.
//
// A Workbook wraps a sheet.Sheet, turns raw user input into cell contents,
// re-evaluates the cells the sheet reports after every edit and caches their
// values. It also tracks unsaved changes and reports each recalculation to a
// notify.Notifier.
package workbook
