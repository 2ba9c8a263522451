package main

type sessionKey string

const userIDSessionKey = sessionKey("userID")
