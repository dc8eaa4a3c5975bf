// Package tables infers the column structure of document tables and
// distributes replacement text across columns.
//
// A table edit that arrives as one flat string ("ДКР Департамент кредитных
// рисков") has to be split over the row's cells. [RoleDetector.InferRoles]
// classifies each column as [RoleKey], [RoleDescription] or [RoleNumber] by
// header keywords and a majority vote over sampled rows, and [Distribute]
// splits the new text accordingly. The algorithmic mapping is always computed
// first; an external review step may replace it when it is confident enough,
// but never blocks it.
package tables
