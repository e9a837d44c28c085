/*
Package sweep describes the configuration space of a benchmark sweep.

A Space holds one list of values per dimension. Its Iterator lazily walks the
Cartesian product in a fixed order where dimensions which change the compiled
binary (flag set, mode, dynamic enclave, data size, scale factor) are outside of
every runtime only dimension, so consecutive configurations share a build as
long as possible.

Sweeps are usually loaded from YAML or HCL files with LoadFile.
*/
package sweep
