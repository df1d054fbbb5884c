// Package algocg solves the sparse linear system Ax = k with the
// (optionally Jacobi-preconditioned) conjugate-gradient method.
//
// The iteration itself is backend-independent: it drives six primitive
// kernels (matvec, axpy, xpay, dot, preconditioner application, copy)
// through the Backend interface. Three backends implement the contract:
// a single-threaded serial backend, a data-parallel backend running lanes
// over one address space, and a multi-unit backend that partitions the
// matrix rows across independent execution units and exchanges replicated
// vectors through a host staging buffer. The point of the package is to
// benchmark the same numerical algorithm across these execution models on
// identical matrices.
package algocg
