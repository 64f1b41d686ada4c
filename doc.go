// Package mahfaza provides the types and operations for a local-first
// brokerage wallet ledger: it records what was bought and sold, which
// wallet funded each order, and everything needed to explain where a
// portfolio's money went.
//
// The core functionalities include:
//   - Position Tracking: Recording buy and sell orders per instrument,
//     with commission and tax computed at placement time, and deriving
//     shares held and weighted-average cost by replaying the history.
//   - Corporate Actions: Bonus issues, splits and reverse splits that
//     scale share counts while leaving the invested cost untouched.
//   - Wallet Accounting: Named pools of buying power that fund orders,
//     so cash flow and performance can be attributed per wallet.
//   - Trade Analytics: A stateless analyzer that FIFO-matches each
//     wallet's sells against its buy lots, attributes the dividends
//     collected while holding, and classifies every closed trade with
//     a win or loss verdict and a plain-language reason.
//   - Dividend Attribution: A built-in Tadawul distribution history
//     plus runtime events, credited positionally from the acquisition
//     date of the shares.
//   - Data Persistence: Human-readable JSON ledger files with stable
//     key order, flushed atomically after every mutation.
//
// This package serves as the foundational logic for the `mahfaza`
// command-line tool, ensuring that all operations are consistent and
// based on a single source of truth.
package mahfaza
