package pdb

var LookInFile = lookInFile
